package cmd

import (
	"context"
	"fmt"
	"time"

	"solyx/application"
	"solyx/bot"
	"solyx/config"
	"solyx/database"
	"solyx/domain/events"
	"solyx/domain/services"
	"solyx/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application.
func Run(ctx context.Context) error {
	log.Info("Starting economy bot...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	log.Info("Initializing services...")
	settingsService := services.NewGuildSettingsService(repository.NewGuildSettingsRepository(db), eventBus)
	userService := services.NewUserService(uowFactory)
	ledgerService := services.NewLedgerService(uowFactory)
	claimService := services.NewClaimService(uowFactory, settingsService, nil)
	shopService := services.NewShopService(uowFactory)
	clanService := services.NewClanService(uowFactory)
	taxService := services.NewTaxService(uowFactory, settingsService, nil)
	raffleService := services.NewRaffleService(uowFactory, nil, nil)

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken}, bot.Services{
		Users:    userService,
		Ledger:   ledgerService,
		Claims:   claimService,
		Shop:     shopService,
		Clans:    clanService,
		Tax:      taxService,
		Raffles:  raffleService,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	bot.RegisterBotSubscriptions(eventBus, discordBot)

	scheduler, err := application.NewScheduler(
		application.NewRaffleSweepWorker(raffleService, nil),
		application.NewTaxResetWorker(uowFactory, taxService),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	scheduler.Start()

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	scheduler.Stop()

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
