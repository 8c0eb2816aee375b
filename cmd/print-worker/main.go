package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mesalivre/pos-backend/internal/printing"
	"github.com/mesalivre/pos-backend/pkg/config"
	"github.com/mesalivre/pos-backend/pkg/logger"
	"github.com/mesalivre/pos-backend/pkg/pubsub"
)

// stdoutWriter renders tickets to stdout. Real deployments swap in an
// ESC/POS driver behind the same interface.
type stdoutWriter struct{}

func (stdoutWriter) Write(_ context.Context, restaurantID string, ticket string) error {
	_, err := fmt.Fprintf(os.Stdout, "--- %s ---\n%s\n", restaurantID, ticket)
	return err
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "print-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "print-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := psClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	worker := printing.NewWorker(psClient.PrintSubscription(), stdoutWriter{}, logg)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "print worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "print worker stopped")
}
