package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/queue"
	"github.com/soltixdb/statcalc/internal/router"
	"github.com/soltixdb/statcalc/internal/services"
	"github.com/soltixdb/statcalc/internal/utils"
	"github.com/soltixdb/statcalc/internal/worker"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("statcalc server starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	analysis := services.NewAnalysisService(logger, cfg.Analysis)

	// The queue is required by the worker; without it the bridge still
	// serves synchronous analysis and /v1/jobs answers 503.
	logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	queueClient, err := queue.NewQueue(cfg.Queue)
	if err != nil {
		if cfg.Worker.Enabled {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		logger.Warn("Queue unavailable, job submission disabled", "error", err)
	} else {
		defer func() { _ = queueClient.Close() }()
		logger.Info("Queue connection established")
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app, err := router.New(logger, analysis, queueClient, *cfg)
	if err != nil {
		logger.Fatal("Failed to initialize router", "error", err)
	}

	var w *worker.Worker
	if cfg.Worker.Enabled {
		w, err = worker.New(queueClient, analysis, cfg.Worker, logger)
		if err != nil {
			logger.Fatal("Failed to create worker", "error", err)
		}
		if err := w.Start(); err != nil {
			logger.Fatal("Failed to start worker", "error", err)
		}
	}

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if w != nil {
		if err := w.Stop(); err != nil {
			logger.Warn("Failed to stop worker", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
