package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkhalikov/cryptolocker/internal/adapter"
	"github.com/mkhalikov/cryptolocker/internal/config"
	"github.com/mkhalikov/cryptolocker/internal/crypto"
	"github.com/mkhalikov/cryptolocker/internal/engine"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/internal/service"
	"github.com/mkhalikov/cryptolocker/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("cryptolocker-bot")

	cfg, err := config.GetBotConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.InitSalt {
		if err = crypto.GenerateSaltFile(cfg.Crypto.SaltFile); err != nil {
			log.Fatal().Err(err).Msg("error creating salt file")
		}
		log.Info().Str("path", cfg.Crypto.SaltFile).Msg("salt file created")
		return
	}

	salt, err := crypto.LoadSalt(cfg.Crypto.SaltFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading salt file, run with -init-salt to create one")
	}

	keychain := crypto.NewKeyChain()
	key, err := keychain.DeriveKey(cfg.Crypto.Passphrase, salt)
	if err != nil {
		log.Fatal().Err(err).Msg("error deriving vault key")
	}
	defer crypto.Wipe(key)

	// The passphrase is only needed for derivation; drop every copy before
	// the bot goes online.
	cfg.Crypto.Passphrase = ""
	os.Unsetenv("ENCRYPTION_PASSPHRASE")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.DB.Close()

	if err = storages.DB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	creds := service.NewCredentials(storages.Credentials, keychain, key, log)
	prefs := service.NewPreferences(storages.Users, log)

	eng := engine.New(creds, prefs, cfg.Engine.StateTTL, log)
	go eng.Run(ctx)

	api := adapter.NewTelegramClient(adapter.TelegramConfig{Token: cfg.Bot.Token})
	bot := adapter.NewBot(api, eng, cfg.Bot.AdminID, cfg.Bot.PollTimeout, log)

	log.Info().
		Int64("admin_id", cfg.Bot.AdminID).
		Msg("starting cryptolocker bot")

	if err = bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("update loop stopped")
	}

	log.Info().Msg("shutdown complete")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
