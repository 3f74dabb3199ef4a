package app

import (
	"context"
	"strings"
	"time"

	"walletwatch/clients/notifier"
	"walletwatch/clients/polymarketapi"
	"walletwatch/clients/polymarketevents"

	"go.uber.org/zap"
)

const (
	defaultInitialFetchLimit = 50
	defaultPollFetchLimit    = 20
)

// MonitorConfig carries the knobs the monitor needs from the application
// configuration.
type MonitorConfig struct {
	Wallet            string
	PollInterval      time.Duration
	MaxBackoff        time.Duration
	InitialFetchLimit int
	PollFetchLimit    int
}

// activityFetcher is the slice of the data API client the monitor uses.
type activityFetcher interface {
	GetUserActivity(ctx context.Context, wallet string, limit int) ([]polymarketapi.Activity, error)
}

// TradeMonitor watches a single wallet for new trades and pushes an alert for
// each one. It keeps an in-memory set of transaction hashes it has already
// examined so every trade alerts at most once per process lifetime. The set
// is not persisted and grows without bound; restarts re-seed it from the
// current activity page.
type TradeMonitor struct {
	logger   *zap.Logger
	api      activityFetcher
	notifier notifier.Notifier
	cfg      MonitorConfig

	seen    map[string]struct{}
	backoff *PollBackoff
}

func NewTradeMonitor(
	logger *zap.Logger,
	api activityFetcher,
	n notifier.Notifier,
	cfg MonitorConfig,
) *TradeMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.InitialFetchLimit <= 0 {
		cfg.InitialFetchLimit = defaultInitialFetchLimit
	}
	if cfg.PollFetchLimit <= 0 {
		cfg.PollFetchLimit = defaultPollFetchLimit
	}

	return &TradeMonitor{
		logger:   logger,
		api:      api,
		notifier: n,
		cfg:      cfg,
		seen:     make(map[string]struct{}),
		backoff:  NewPollBackoff(cfg.PollInterval, cfg.MaxBackoff),
	}
}

// Seed marks the wallet's recent activity as already seen without alerting,
// so startup does not replay history. Returns the number of known hashes. A
// failed seed fetch is logged and tolerated; the trades simply alert on the
// first successful poll instead.
func (tm *TradeMonitor) Seed(ctx context.Context) int {
	activity, err := tm.api.GetUserActivity(ctx, tm.cfg.Wallet, tm.cfg.InitialFetchLimit)
	if err != nil {
		tm.logger.Warn("seed fetch failed, starting with empty seen set", zap.Error(err))
		return 0
	}

	for _, a := range activity {
		if a.TransactionHash != "" {
			tm.seen[a.TransactionHash] = struct{}{}
		}
	}

	tm.logger.Info("seeded seen set",
		zap.Int("records", len(activity)),
		zap.Int("known", len(tm.seen)))
	return len(tm.seen)
}

// Run polls until ctx is cancelled. Every cycle fetches the latest activity,
// alerts on unseen trades, then sleeps for the backoff-controlled delay.
func (tm *TradeMonitor) Run(ctx context.Context) {
	tm.logger.Info("trade monitor started",
		zap.String("wallet", tm.cfg.Wallet),
		zap.Duration("pollInterval", tm.cfg.PollInterval))

	for {
		if err := tm.pollOnce(ctx); err != nil {
			tm.backoff.Failure()
			tm.logger.Error("poll cycle failed",
				zap.Error(err),
				zap.Int("consecutiveErrors", tm.backoff.Errors()),
				zap.Duration("nextDelay", tm.backoff.Delay()))
		} else {
			tm.backoff.Success()
		}

		select {
		case <-ctx.Done():
			tm.logger.Info("trade monitor stopping")
			return
		case <-time.After(tm.backoff.Delay()):
		}
	}
}

// pollOnce fetches one page of activity and dispatches alerts for the unseen
// trades in it, oldest first.
func (tm *TradeMonitor) pollOnce(ctx context.Context) error {
	activity, err := tm.api.GetUserActivity(ctx, tm.cfg.Wallet, tm.cfg.PollFetchLimit)
	if err != nil {
		return err
	}

	for _, a := range tm.filterNew(activity) {
		tm.dispatch(a)
	}
	return nil
}

// filterNew walks the page oldest-first (the API returns newest first), marks
// every examined transaction hash as seen, and returns the unseen trades in
// chronological order. Non-trade activity (splits, merges, redemptions) is
// marked seen but never returned, so a later page cannot surface it as new.
func (tm *TradeMonitor) filterNew(activity []polymarketapi.Activity) []polymarketapi.Activity {
	var fresh []polymarketapi.Activity
	for i := len(activity) - 1; i >= 0; i-- {
		a := activity[i]
		if a.TransactionHash == "" {
			continue
		}
		if _, ok := tm.seen[a.TransactionHash]; ok {
			continue
		}
		tm.seen[a.TransactionHash] = struct{}{}

		if a.Type == "TRADE" {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// dispatch logs the trade and hands the alert to the notifier. The notifier
// owns delivery; a channel failure never stops the monitor.
func (tm *TradeMonitor) dispatch(a polymarketapi.Activity) {
	alert := alertFromActivity(a)

	tm.logger.Info("new trade",
		zap.String("side", alert.Side),
		zap.String("market", alert.MarketTitle),
		zap.Float64("shares", alert.Shares),
		zap.Float64("price", alert.Price),
		zap.Float64("totalUSDC", alert.Notional),
		zap.String("txHash", alert.TransactionHash))

	tm.notifier.SendTradeAlert(alert)
}

// SeenCount returns the number of transaction hashes marked as seen.
func (tm *TradeMonitor) SeenCount() int {
	return len(tm.seen)
}

// alertFromActivity resolves an activity record into the channel-independent
// alert model. Market name falls back through title, market and asset before
// giving up; notional prefers the API's usdcSize and derives shares*price
// when it is absent.
func alertFromActivity(a polymarketapi.Activity) notifier.TradeAlert {
	side := strings.ToUpper(strings.TrimSpace(a.Side))
	if side == "" {
		side = "UNKNOWN"
	}

	title := a.Title
	if title == "" {
		title = a.Market
	}
	if title == "" {
		title = a.Asset
	}
	if title == "" {
		title = notifier.UnknownMarket
	}

	shares := a.Size.Float64()
	price := a.Price.Float64()
	total := a.UsdcSize.Float64()
	if total == 0 {
		total = shares * price
	}

	var ts time.Time
	if a.Timestamp > 0 {
		ts = time.Unix(a.Timestamp, 0)
	}

	return notifier.TradeAlert{
		Side:            side,
		MarketTitle:     title,
		Outcome:         a.Outcome,
		Shares:          shares,
		Price:           price,
		Notional:        total,
		TransactionHash: a.TransactionHash,
		Timestamp:       ts,
	}
}

// RunLive consumes the live trade feed until ctx is cancelled or the feed
// errors out. Frames pass through the same seen-set and dispatch path as
// polling, so a trade observed on both paths still alerts only once. Returns
// nil on cancellation and the feed error otherwise, letting the caller fall
// back to polling.
func (tm *TradeMonitor) RunLive(ctx context.Context, feed *polymarketevents.Client) error {
	tm.logger.Info("live trade feed active", zap.String("wallet", tm.cfg.Wallet))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-feed.Errors():
			return err
		case msg := <-feed.Messages():
			event := polymarketevents.ParseTradeEvent(msg)
			if event == nil || !event.InvolvesWallet(tm.cfg.Wallet) {
				continue
			}
			for _, a := range tm.filterNew([]polymarketapi.Activity{activityFromEvent(event)}) {
				tm.dispatch(a)
			}
		}
	}
}

// activityFromEvent converts a live feed frame into the activity shape the
// dedup and dispatch path operates on.
func activityFromEvent(e *polymarketevents.TradeEvent) polymarketapi.Activity {
	return polymarketapi.Activity{
		Type:            "TRADE",
		Side:            e.Side,
		Size:            polymarketapi.Number(e.SizeFloat()),
		Price:           polymarketapi.Number(e.PriceFloat()),
		Timestamp:       e.TimestampUnix(),
		TransactionHash: e.TransactionHash,
		Title:           e.Title,
		Outcome:         e.Outcome,
	}
}
