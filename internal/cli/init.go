// Package cli provides common CLI initialization utilities shared by
// cmd/financas and cmd/financas-mirror.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/backend"
	"financas/internal/config"
	"financas/internal/log"
)

// SetupLogger builds a text logger at the given level (debug, info, warn or
// error) and sets it as the default logger. Unknown levels fall back to info.
func SetupLogger(level, component string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: component,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info logging", log.FieldError, err.Error())
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, sets up logging from it and
// validates it. Exits the process on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg, logger
}

// OpenStore creates the named ledger backend. Exits the process on failure.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config, name string) *backend.Result {
	result, err := openStore(ctx, logger, cfg, name)
	if err != nil {
		logger.Error("Failed to initialize ledger store", log.FieldBackend, name, log.FieldError, err.Error())
		os.Exit(1)
	}
	return result
}

func openStore(ctx context.Context, logger *log.Logger, cfg *config.Config, name string) (*backend.Result, error) {
	backendCfg, err := backend.FromAppConfig(cfg, name)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	return factory.CreateBackend(ctx, backendCfg)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// On SIGINT or SIGTERM it runs cleanup with a context bounded by timeout,
// then cancels the returned context and closes done.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
		}

		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
