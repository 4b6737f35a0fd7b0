package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quickai-backend/internal/bootstrap"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/server"
	"quickai-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		ServiceName:  "quickai-api",
		Environment:  cfg.Env,
		Exporter:     cfg.OTelExporter,
		OTLPEndpoint: cfg.OTelEndpoint,
	})
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	srv := &http.Server{
		Addr:    server.Addr(cfg.Port),
		Handler: app.Router,
	}

	go func() {
		telemetry.Info("api.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	telemetry.Info("api.shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown_failed", map[string]any{"error": err})
	}
	if err := app.Close(); err != nil {
		telemetry.Warn("api.close_failed", map[string]any{"error": err})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		telemetry.Warn("api.tracing_shutdown_failed", map[string]any{"error": err})
	}
}
