package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/laramesh/signalling/internal/api"
	"github.com/laramesh/signalling/internal/assistant"
	"github.com/laramesh/signalling/internal/config"
	"github.com/laramesh/signalling/internal/signaling"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire the hub and the assistant interceptor
	hub := signaling.NewHub(logger)
	svc := assistant.NewClient(cfg.AssistantURL, cfg.AssistantTimeout, logger)
	interceptor := assistant.NewInterceptor(svc, hub, logger)
	hub.SetInterceptor(interceptor)

	go hub.Run(ctx)

	// Create router
	router := api.NewRouter(logger, hub)

	// Create server. No read/write timeouts: they would sever long-lived
	// websocket sessions; the hub's ping/pong keepalive handles liveness.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("assistant", cfg.AssistantURL).
			Msg("starting signalling server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	// Let outstanding assistant calls finish before stopping the hub, so
	// their completions are not dropped mid-delivery.
	interceptor.Wait()
	cancel()

	logger.Info().Msg("server stopped")
}
