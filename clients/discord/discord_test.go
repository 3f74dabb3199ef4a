package discord

import (
	"strings"
	"testing"
	"time"

	"walletwatch/clients/notifier"
	"walletwatch/config"

	"go.uber.org/zap"
)

func TestNewClient_NotConfigured(t *testing.T) {
	cfg := &config.Config{}
	if client := NewClient(zap.NewNop(), cfg); client != nil {
		t.Error("expected nil client when not configured")
	}

	cfg.Discord.BotToken = "token"
	if client := NewClient(zap.NewNop(), cfg); client != nil {
		t.Error("expected nil client without channel ID")
	}
}

func TestNewClient_Configured(t *testing.T) {
	cfg := &config.Config{
		Discord: config.DiscordConfig{
			BotToken:  "test-token",
			ChannelID: "chan-1",
		},
	}

	client := NewClient(nil, cfg)
	if client == nil {
		t.Fatal("expected client")
	}
	if client.channelID != "chan-1" {
		t.Errorf("unexpected channel: %s", client.channelID)
	}
	if client.session == nil {
		t.Error("expected session to be created")
	}
}

func TestBuildAlertMessage(t *testing.T) {
	alert := notifier.TradeAlert{
		Side:        "BUY",
		MarketTitle: "Will X happen?",
		Outcome:     "Yes",
		Shares:      10,
		Price:       0.5,
		Notional:    5,
		Timestamp:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	msg := buildAlertMessage(alert)

	for _, want := range []string{
		"📈 BUY",
		"**Market:** Will X happen?",
		"**Outcome:** Yes",
		"**Shares:** 10.00",
		"**Price:** $0.5000",
		"**Total:** $5.00 USDC",
		"*2024-01-15 10:30:00*",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message:\n%s", want, msg)
		}
	}
}

func TestBuildAlertMessage_NoOutcome(t *testing.T) {
	msg := buildAlertMessage(notifier.TradeAlert{Side: "SELL", MarketTitle: "M"})

	if !strings.Contains(msg, "📉 SELL") {
		t.Errorf("expected SELL direction:\n%s", msg)
	}
	if strings.Contains(msg, "Outcome:") {
		t.Errorf("expected outcome omitted:\n%s", msg)
	}
}
