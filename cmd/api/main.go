package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"medicab/internal/adapter/repo"
	"medicab/internal/domain"
	"medicab/internal/http/handlers"
	httpapi "medicab/internal/http/httpapi"
	"medicab/internal/infra"
	"medicab/internal/metrics"
	"medicab/internal/notify"
	"medicab/internal/service"
	"medicab/internal/sweep"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.RunMigrations(cfg); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	metrics.Register()

	runner := infra.NewSQLRunner(dbpool, logger)
	clock := domain.SystemClock{}

	directory := repo.NewUserDirectory(runner)
	donations := repo.NewDonationRepository(runner)
	inventory := repo.NewInventoryRepository(runner)
	medicines := repo.NewMedicineRepository(runner)
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

	donationSvc := service.NewDonationService(donations, directory, medicines, dispatcher, clock, cfg.PickupLead, logger)
	sweeper := sweep.NewSweeper(inventory, dispatcher, clock, cfg.SweepLookahead, cfg.SweepHolderTimeout, logger)
	scheduler := sweep.NewScheduler(sweeper, cfg.SweepInterval, cfg.SweepStartOffset, cfg.SweepOnStart, logger)
	go scheduler.Start(ctx)

	app := &handlers.App{
		Logger:        logger,
		Directory:     directory,
		Donations:     donationSvc,
		Inventory:     inventory,
		Medicines:     medicines,
		Notifications: inbox,
		Sweeper:       sweeper,
		Clock:         clock,
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// emailSender returns nil (in-app only) unless SMTP is configured. The
// concrete nil matters: a typed nil inside the interface would dodge the
// dispatcher's disabled-channel check.
func emailSender(cfg *infra.Config) notify.EmailSender {
	if sender := notify.NewSMTPSender(cfg); sender != nil {
		return sender
	}
	return nil
}
