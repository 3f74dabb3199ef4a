// Package clients wires up every external surface the monitor talks to.
package clients

import (
	"walletwatch/clients/discord"
	"walletwatch/clients/notifier"
	"walletwatch/clients/polymarketapi"
	"walletwatch/clients/polymarketevents"
	"walletwatch/clients/telegram"
	"walletwatch/clients/terminal"
	"walletwatch/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Telegram   *telegram.Client
	Discord    *discord.Client
	Notifier   notifier.Notifier // combined notifier for all channels
	Polymarket *polymarketapi.Client
	LiveFeed   *polymarketevents.Client
}

// NewClients builds all clients. The delivery decision is made here, once:
// alerts go to every configured messaging channel, or to the terminal when
// none is configured. It is not re-evaluated per trade.
func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	telegramClient := telegram.NewClient(logger, cfg)
	discordClient := discord.NewClient(logger, cfg)

	var channels []notifier.Notifier
	if telegramClient != nil {
		channels = append(channels, telegramClient)
	}
	if discordClient != nil {
		channels = append(channels, discordClient)
	}
	multi := notifier.NewMultiNotifier(channels...)

	var combined notifier.Notifier = multi
	if multi.Count() == 0 {
		logger.Warn("no messaging channel configured, falling back to terminal display")
		combined = terminal.NewNotifier(logger)
	}

	c := &Clients{
		Logger:     logger,
		Telegram:   telegramClient,
		Discord:    discordClient,
		Notifier:   combined,
		Polymarket: polymarketapi.NewClient(logger, cfg),
	}

	if cfg.UseWebSocket {
		c.LiveFeed = polymarketevents.NewClient(logger, cfg.Polymarket.LiveWSURL)
	}

	return c
}
