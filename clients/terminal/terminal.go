// Package terminal renders trade alerts for local display with ANSI colors.
// It is the delivery channel of last resort: used when no messaging channel
// is configured.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"walletwatch/clients/notifier"

	"github.com/google/goterm/term"
	"go.uber.org/zap"
)

// Notifier prints the display variant of each alert to a local writer.
// Implements notifier.Notifier.
type Notifier struct {
	logger *zap.Logger
	out    io.Writer
}

func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger, out: os.Stdout}
}

// SendTradeAlert prints the alert. Implements notifier.Notifier.
func (n *Notifier) SendTradeAlert(alert notifier.TradeAlert) {
	fmt.Fprintln(n.out, RenderAlert(alert))
}

// Close implements notifier.Notifier.
func (n *Notifier) Close() error {
	return nil
}

// RenderAlert builds the display variant of a trade alert: directional glyph
// and side colored green for buys and red for sells, market name, optional
// outcome line, and the same share/price/total values the channel variant
// carries.
func RenderAlert(alert notifier.TradeAlert) string {
	colorize := term.Redf
	glyph := "📉"
	if alert.IsBuy() {
		colorize = term.Greenf
		glyph = "📈"
	}

	var sb strings.Builder
	sb.WriteString(colorize("%s %s", glyph, alert.Side))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Market:  %s\n", alert.MarketTitle))
	if alert.Outcome != "" {
		sb.WriteString(fmt.Sprintf("  Outcome: %s\n", alert.Outcome))
	}
	sb.WriteString(fmt.Sprintf("  Shares:  %s\n", term.Cyanf("%s", alert.FormattedShares())))
	sb.WriteString(fmt.Sprintf("  Price:   %s\n", term.Yellowf("%s", alert.FormattedPrice())))
	sb.WriteString(fmt.Sprintf("  Total:   %s\n", colorize("%s", alert.FormattedTotal())))
	sb.WriteString(fmt.Sprintf("  %s", alert.FormattedTime()))

	return sb.String()
}

// PrintBanner writes the monitoring-active banner shown after the seen set
// has been seeded.
func PrintBanner(out io.Writer, wallet string, interval time.Duration, seeded int) {
	fmt.Fprintln(out, term.Greenf("── monitoring active ──"))
	fmt.Fprintf(out, "  Wallet:   %s\n", term.Cyanf("%s", wallet))
	fmt.Fprintf(out, "  Interval: every %s\n", interval)
	fmt.Fprintf(out, "  Loaded:   %d existing transactions\n", seeded)
}
