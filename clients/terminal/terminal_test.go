package terminal

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"walletwatch/clients/notifier"

	"go.uber.org/zap"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func TestRenderAlert_Buy(t *testing.T) {
	alert := notifier.TradeAlert{
		Side:        "BUY",
		MarketTitle: "Will X happen?",
		Outcome:     "Yes",
		Shares:      1500,
		Price:       0.1234,
		Notional:    185.1,
		Timestamp:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	out := stripANSI(RenderAlert(alert))

	for _, want := range []string{
		"📈 BUY",
		"Market:  Will X happen?",
		"Outcome: Yes",
		"Shares:  1,500.00",
		"Price:   $0.1234",
		"Total:   $185.10 USDC",
		"2024-01-15 10:30:00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderAlert_SellNoOutcome(t *testing.T) {
	alert := notifier.TradeAlert{
		Side:        "SELL",
		MarketTitle: "Some market",
		Shares:      5,
		Price:       0.9,
		Notional:    4.5,
	}

	out := stripANSI(RenderAlert(alert))

	if !strings.Contains(out, "📉 SELL") {
		t.Errorf("expected sell glyph:\n%s", out)
	}
	if strings.Contains(out, "Outcome:") {
		t.Errorf("expected outcome line omitted:\n%s", out)
	}
	if !strings.Contains(out, "Unknown") {
		t.Errorf("expected Unknown timestamp:\n%s", out)
	}
}

func TestNotifier_Send(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(zap.NewNop())
	n.out = &buf

	n.SendTradeAlert(notifier.TradeAlert{Side: "BUY", MarketTitle: "M"})

	if !strings.Contains(stripANSI(buf.String()), "BUY") {
		t.Errorf("expected alert printed, got: %s", buf.String())
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0xabc", 5*time.Second, 42)

	out := stripANSI(buf.String())
	for _, want := range []string{"monitoring active", "0xabc", "5s", "42 existing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in banner:\n%s", want, out)
		}
	}
}
