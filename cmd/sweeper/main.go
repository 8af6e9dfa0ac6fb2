package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"medicab/internal/adapter/repo"
	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/metrics"
	"medicab/internal/notify"
	"medicab/internal/sweep"
)

// Standalone expiry sweep worker for deployments that keep the recurring
// scan out of the API process. Set SWEEP_ON_START=true to run one sweep
// immediately instead of waiting for the first tick.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("sweeper: db connection failed")
	}
	defer dbpool.Close()

	metrics.Register()

	runner := infra.NewSQLRunner(dbpool, logger)
	clock := domain.SystemClock{}

	directory := repo.NewUserDirectory(runner)
	inventory := repo.NewInventoryRepository(runner)
	inbox := repo.NewNotificationRepository(runner)

	dispatcher := notify.NewDispatcher(notify.Options{
		Inbox:     inbox,
		Directory: directory,
		Email:     emailSender(cfg),
		Clock:     clock,
		Logger:    logger,
		Retries:   cfg.NotifyRetries,
	})
	dispatcher.Start()
	defer dispatcher.Close()

	sweeper := sweep.NewSweeper(inventory, dispatcher, clock, cfg.SweepLookahead, cfg.SweepHolderTimeout, logger)
	scheduler := sweep.NewScheduler(sweeper, cfg.SweepInterval, cfg.SweepStartOffset, cfg.SweepOnStart, logger)

	scheduler.Start(ctx)
	logger.Info().Msg("sweeper: stopped")
}

func emailSender(cfg *infra.Config) notify.EmailSender {
	if sender := notify.NewSMTPSender(cfg); sender != nil {
		return sender
	}
	return nil
}
