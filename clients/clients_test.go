package clients

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"walletwatch/clients/notifier"
	"walletwatch/clients/telegram"
	"walletwatch/clients/terminal"
	"walletwatch/config"

	"go.uber.org/zap"
)

func TestNewClients_TerminalFallback(t *testing.T) {
	cfg := &config.Config{}

	c := NewClients(zap.NewNop(), cfg)

	if c.Telegram != nil {
		t.Error("expected no telegram client")
	}
	if c.Discord != nil {
		t.Error("expected no discord client")
	}
	if _, ok := c.Notifier.(*terminal.Notifier); !ok {
		t.Errorf("expected terminal fallback notifier, got %T", c.Notifier)
	}
	if c.LiveFeed != nil {
		t.Error("expected no live feed client by default")
	}
}

func TestNewClients_TokenWithoutChatIDsFallsBack(t *testing.T) {
	cfg := &config.Config{
		Telegram: config.TelegramConfig{BotToken: "token"},
	}

	c := NewClients(zap.NewNop(), cfg)

	if _, ok := c.Notifier.(*terminal.Notifier); !ok {
		t.Errorf("expected terminal fallback when chat list empty, got %T", c.Notifier)
	}
}

func TestNewClients_TelegramConfigured(t *testing.T) {
	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			BotToken: "token",
			ChatIDs:  []string{"1"},
		},
	}

	c := NewClients(zap.NewNop(), cfg)

	if c.Telegram == nil {
		t.Fatal("expected telegram client")
	}
	if multi, ok := c.Notifier.(*notifier.MultiNotifier); !ok || multi.Count() != 1 {
		t.Errorf("expected multi notifier with one channel, got %T", c.Notifier)
	}
}

func TestNewClients_LiveFeedEnabled(t *testing.T) {
	cfg := &config.Config{UseWebSocket: true}
	cfg.Polymarket.LiveWSURL = "wss://example.test"

	c := NewClients(zap.NewNop(), cfg)

	if c.LiveFeed == nil {
		t.Error("expected live feed client when websocket mode enabled")
	}
}

// Cross-variant property: the display and channel-markup renderings of the
// same alert must carry identical values once markup and colors are removed.

var (
	ansiSeq    = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	valueRe    = regexp.MustCompile(`(?m)^\s*\*?\*?(Market|Outcome|Shares|Price|Total):\*?\*?\s*(.+?)\s*$`)
	unescapeRe = regexp.MustCompile(`\\(.)`)
)

func extractValues(t *testing.T, rendered string) map[string]string {
	t.Helper()
	plain := ansiSeq.ReplaceAllString(rendered, "")
	plain = unescapeRe.ReplaceAllString(plain, "$1")

	values := map[string]string{}
	for _, m := range valueRe.FindAllStringSubmatch(plain, -1) {
		values[m[1]] = m[2]
	}

	switch {
	case strings.Contains(plain, "BUY"):
		values["Side"] = "BUY"
	case strings.Contains(plain, "SELL"):
		values["Side"] = "SELL"
	}

	return values
}

func TestAlertVariants_SameValues(t *testing.T) {
	alerts := []notifier.TradeAlert{
		{
			Side:        "BUY",
			MarketTitle: "Will X happen? (2026 edition)",
			Outcome:     "Yes",
			Shares:      12345.678,
			Price:       0.4321,
			Notional:    5334.57,
			Timestamp:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			Side:        "SELL",
			MarketTitle: "Plain market",
			Shares:      1,
			Price:       0.99,
			Notional:    0.99,
		},
	}

	for _, alert := range alerts {
		display := extractValues(t, terminal.RenderAlert(alert))
		markup := extractValues(t, telegram.BuildAlertMessage(alert))

		for _, key := range []string{"Side", "Market", "Outcome", "Shares", "Price", "Total"} {
			if display[key] != markup[key] {
				t.Errorf("%s mismatch: display=%q markup=%q", key, display[key], markup[key])
			}
		}
	}
}
