package logging

import "context"

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	messageIDKey
)

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the global one
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}
	return global
}

// Ctx returns the logger from ctx with the request and message ids attached
func Ctx(ctx context.Context) *Logger {
	return FromContext(ctx).WithContext(ctx)
}

// WithRequestID tags ctx with an HTTP request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id carried by ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithMessageID tags ctx with the id of the queued job being handled
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, messageIDKey, messageID)
}

func extractContextFields(ctx context.Context) []interface{} {
	var fields []interface{}
	if id := RequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if id, _ := ctx.Value(messageIDKey).(string); id != "" {
		fields = append(fields, "message_id", id)
	}
	return fields
}
