package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/soltixdb/statcalc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	k1, v1 := Operation("stats")
	k2, v2 := Count(5)
	kErr, vErr := Err(errors.New("boom"))
	logger.Info("analysis done", k1, v1, k2, v2, kErr, vErr, "dangling")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "analysis done", entries[0]["message"])
	assert.Equal(t, "stats", entries[0]["operation"])
	assert.Equal(t, float64(5), entries[0]["count"])
	assert.Equal(t, "boom", entries[0]["error"])
	assert.NotContains(t, entries[0], "dangling")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	assert.Len(t, decodeLines(t, &buf), 2)
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.InfoLevel)
	child := parent.With("component", "worker")

	child.Info("child")
	parent.Info("parent")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "worker", entries[0]["component"])
	assert.NotContains(t, entries[1], "component")
}

func TestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithMessageID(ctx, "msg-1")

	assert.Equal(t, "req-1", RequestID(ctx))
	Ctx(ctx).Info("hello")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Equal(t, "msg-1", entries[0]["message_id"])
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, Global(), FromContext(context.Background()))
	assert.Empty(t, RequestID(context.Background()))
}

func TestNewFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "statcalc.log")
	logger, err := NewFromConfig(config.LoggingConfig{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)

	logger.Info("skipped")
	logger.Warn("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "skipped")
	assert.Contains(t, string(data), "written")
}

func TestFiberMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	app := fiber.New()
	app.Use(FiberMiddleware(logger))
	app.Get("/echo", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c.UserContext()))
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/echo", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest("GET", "/echo", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	_, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "fixed-id", entries[0]["request_id"])
	assert.Equal(t, "/echo", entries[0]["path"])
}

func TestFiberMiddleware_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	app := fiber.New()
	app.Use(FiberMiddleware(logger))
	app.Post("/v1/stats", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/stats", strings.NewReader(`{"values":[1]}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, float64(fiber.StatusRequestEntityTooLarge), entries[0]["status"])
	assert.Equal(t, float64(14), entries[0]["bytes_in"])
	assert.Equal(t, "too big", entries[0]["error"])
}
