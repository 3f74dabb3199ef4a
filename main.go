package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	clts "walletwatch/clients"
	"walletwatch/config"
	"walletwatch/internal/app"
	"walletwatch/logger"

	"go.uber.org/zap"
)

func main() {
	// Load and validate config before anything touches the network.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting wallet monitor",
		zap.String("wallet", cfg.Wallet),
		zap.Duration("pollInterval", cfg.PollInterval),
		zap.Duration("maxBackoff", cfg.MaxBackoff),
		zap.Bool("useWebSocket", cfg.UseWebSocket),
		zap.String("telegramToken", cfg.MaskedTelegramToken()),
		zap.Int("telegramRecipients", len(cfg.Telegram.ChatIDs)),
		zap.Bool("discordConfigured", cfg.Discord.Configured()))

	log.Info("instantiating clients")
	clients := clts.NewClients(log, cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	runner := app.NewRunner(clients, cfg)
	if err := runner.Run(ctx); err != nil {
		log.Fatal("runner failed", zap.Error(err))
	}

	log.Info("stopped")
}
