package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/cli"
	"financas/internal/log"
	"financas/internal/worker"
)

const dialAttempts = 10

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)

	if cfg.MirrorBackend == "" {
		logger.Error("MIRROR_BACKEND is required to run the mirror worker")
		os.Exit(1)
	}
	if !cfg.EventsEnabled() && cfg.MirrorInterval <= 0 {
		logger.Error("Nothing to do: set AMQP_URL or MIRROR_INTERVAL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	primary := cli.OpenStore(ctx, logger, cfg, cfg.DataBackend)
	defer primary.Close()
	mirror := cli.OpenStore(ctx, logger, cfg, cfg.MirrorBackend)
	defer mirror.Close()

	w := worker.NewMirrorWorker(primary.Store, mirror.Store, logger)

	// Catch up with changes made while the worker was down.
	if err := w.SyncNow(ctx); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.EventsEnabled() {
		g.Go(func() error {
			client, err := amqp.DialWithRetry(gctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, dialAttempts)
			if err != nil {
				return err
			}
			defer client.Close()
			return client.ConsumeLedgerChanged(gctx, w.HandleLedgerChanged)
		})
	}
	if cfg.MirrorInterval > 0 {
		g.Go(func() error {
			return w.Run(gctx, cfg.MirrorInterval)
		})
	}

	logger.Info("Mirror worker started",
		log.FieldBackend, cfg.DataBackend,
		"mirror", cfg.MirrorBackend,
		"events", cfg.EventsEnabled(),
		"interval", cfg.MirrorInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mirror worker failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	syncs, last := w.Stats()
	logger.Info("Mirror worker stopped", log.FieldOperation, log.OpShutdown, "syncs", syncs, "last_sync", last)
}
