package app

import (
	"context"
	"os"

	"walletwatch/clients"
	"walletwatch/clients/terminal"
	"walletwatch/config"

	"go.uber.org/zap"
)

// Runner owns the monitor lifecycle: seed, optional live feed, polling loop,
// cleanup.
type Runner struct {
	logger  *zap.Logger
	clients *clients.Clients
	cfg     *config.Config
	monitor *TradeMonitor
}

func NewRunner(c *clients.Clients, cfg *config.Config) *Runner {
	monitor := NewTradeMonitor(c.Logger, c.Polymarket, c.Notifier, MonitorConfig{
		Wallet:            cfg.Wallet,
		PollInterval:      cfg.PollInterval,
		MaxBackoff:        cfg.MaxBackoff,
		InitialFetchLimit: cfg.InitialFetchLimit,
		PollFetchLimit:    cfg.PollFetchLimit,
	})

	return &Runner{
		logger:  c.Logger,
		clients: c,
		cfg:     cfg,
		monitor: monitor,
	}
}

// Run blocks until ctx is cancelled. When the live feed is enabled it is
// tried first; any feed failure, at connect time or later, falls back to
// polling for the rest of the process lifetime.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		if err := r.clients.Notifier.Close(); err != nil {
			r.logger.Warn("notifier close failed", zap.Error(err))
		}
	}()

	seeded := r.monitor.Seed(ctx)
	terminal.PrintBanner(os.Stdout, r.cfg.Wallet, r.cfg.PollInterval, seeded)

	if feed := r.clients.LiveFeed; feed != nil {
		if err := feed.Connect(ctx); err != nil {
			r.logger.Warn("live feed connect failed, polling only", zap.Error(err))
		} else {
			defer feed.Close()
			err := r.monitor.RunLive(ctx, feed)
			if err == nil || ctx.Err() != nil {
				return nil
			}
			r.logger.Warn("live feed lost, falling back to polling", zap.Error(err))
		}
	}

	r.monitor.Run(ctx)
	return nil
}
