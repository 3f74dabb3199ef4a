// Package discord delivers trade alerts to a Discord channel.
package discord

import (
	"fmt"
	"strings"

	"walletwatch/clients/notifier"
	"walletwatch/config"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Client sends alerts to a Discord channel.
// Implements notifier.Notifier.
type Client struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
}

// NewClient creates a Discord notifier, or nil when the bot token or channel
// ID is missing or the session cannot be created.
func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Discord.Configured() {
		logger.Info("discord not configured, channel disabled")
		return nil
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return nil
	}

	logger.Info("discord bot initialized",
		zap.String("channelID", cfg.Discord.ChannelID),
	)

	return &Client{
		logger:    logger,
		session:   session,
		channelID: cfg.Discord.ChannelID,
	}
}

// SendTradeAlert sends a trade alert to the configured channel.
// Implements notifier.Notifier.
func (c *Client) SendTradeAlert(alert notifier.TradeAlert) {
	message := buildAlertMessage(alert)

	if _, err := c.session.ChannelMessageSend(c.channelID, message); err != nil {
		c.logger.Error("failed to send discord message",
			zap.String("channelID", c.channelID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("sent discord trade alert",
		zap.String("market", alert.MarketTitle),
	)
}

func buildAlertMessage(alert notifier.TradeAlert) string {
	direction := "📉 SELL"
	if alert.IsBuy() {
		direction = "📈 BUY"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n", direction))
	sb.WriteString(fmt.Sprintf("**Market:** %s\n", alert.MarketTitle))
	if alert.Outcome != "" {
		sb.WriteString(fmt.Sprintf("**Outcome:** %s\n", alert.Outcome))
	}
	sb.WriteString(fmt.Sprintf("**Shares:** %s\n", alert.FormattedShares()))
	sb.WriteString(fmt.Sprintf("**Price:** %s\n", alert.FormattedPrice()))
	sb.WriteString(fmt.Sprintf("**Total:** %s\n", alert.FormattedTotal()))
	sb.WriteString(fmt.Sprintf("*%s*", alert.FormattedTime()))

	return sb.String()
}

// Close tears down the Discord session. Implements notifier.Notifier.
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}
