package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"financas/internal/amqp"
	"financas/internal/cli"
	apphttp "financas/internal/http"
	"financas/internal/log"
	"financas/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	store := cli.OpenStore(context.Background(), logger, cfg, cfg.DataBackend)
	defer store.Close()

	// Stays a nil interface when events are off.
	var notifier services.Notifier
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, change events disabled", log.FieldError, err.Error())
		} else {
			defer client.Close()
			notifier = client
			logger.Info("Publishing ledger changes", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(store.Store, notifier, logger)
	srv := apphttp.NewServer(":"+cfg.Port, svc, logger, cfg.RateLimitPerMinute)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	})

	logger.Info("Starting financas server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"events", notifier != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
