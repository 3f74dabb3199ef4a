// Package notifier defines the trade alert model shared by all delivery
// channels, and the fan-out across them.
package notifier

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnknownMarket is the display name used when an activity record carries no
// usable market name.
const UnknownMarket = "Unknown Market"

// TradeAlert contains all the data needed for a trade alert notification.
// Values are resolved once, at construction; renderers only differ in
// presentation.
type TradeAlert struct {
	Side            string // BUY, SELL or UNKNOWN
	MarketTitle     string
	Outcome         string // empty means no outcome line
	Shares          float64
	Price           float64
	Notional        float64 // USDC
	TransactionHash string
	Timestamp       time.Time // zero means unknown
}

// IsBuy reports whether the alert is for a buy.
func (a TradeAlert) IsBuy() bool {
	return a.Side == "BUY"
}

// numPrinter renders grouped decimals (1,234.56) for both alert variants.
var numPrinter = message.NewPrinter(language.English)

// FormattedShares returns the share quantity with thousands separators and
// two decimals.
func (a TradeAlert) FormattedShares() string {
	return numPrinter.Sprintf("%.2f", a.Shares)
}

// FormattedPrice returns the unit price with a currency prefix and four
// decimals.
func (a TradeAlert) FormattedPrice() string {
	return fmt.Sprintf("$%.4f", a.Price)
}

// FormattedTotal returns the notional with thousands separators, two decimals
// and the USDC suffix.
func (a TradeAlert) FormattedTotal() string {
	return numPrinter.Sprintf("$%.2f USDC", a.Notional)
}

// FormattedTime returns the trade time, or "Unknown" when no timestamp was
// present on the activity record.
func (a TradeAlert) FormattedTime() string {
	if a.Timestamp.IsZero() {
		return "Unknown"
	}
	return a.Timestamp.Format("2006-01-02 15:04:05")
}

// Notifier is the interface for sending trade alerts to a delivery channel.
// Implementations never return an error from SendTradeAlert: delivery is
// best-effort and failures are logged, not propagated.
type Notifier interface {
	SendTradeAlert(alert TradeAlert)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers, in order.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a MultiNotifier with the given notifiers.
// Nil entries are dropped.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendTradeAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendTradeAlert(alert TradeAlert) {
	for _, n := range m.notifiers {
		n.SendTradeAlert(alert)
	}
}

// Close closes all registered notifiers.
func (m *MultiNotifier) Close() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active notifiers.
func (m *MultiNotifier) Count() int {
	return len(m.notifiers)
}
