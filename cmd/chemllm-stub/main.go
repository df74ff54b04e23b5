// Command chemllm-stub serves the ChemLLM status and generate routes with canned answers,
// so chemchat can be exercised without GPU weights.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chemchat/internal/config"
	"chemchat/internal/http"
	"chemchat/internal/service"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	model := service.NewStubModelService(service.StubConfig{
		Status:  cfg.StubModelStatus,
		Latency: cfg.StubLatency,
	})
	router := http.NewRouter(&http.Deps{Model: model})

	addr := ":" + cfg.StubPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Stub server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting ChemLLM stub server", "addr", addr, "model_status", cfg.StubModelStatus, "latency", cfg.StubLatency)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("Stub server failed to start: %v", err)
	}
	slog.Info("Stub server stopped")
}
