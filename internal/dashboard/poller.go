package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/robfig/cron/v3"
)

// Refresher is the part of Service the poller drives.
type Refresher interface {
	Refresh(ctx context.Context) (domain.Snapshot, error)
}

// Poller refreshes the dashboard on a cron schedule.
type Poller struct {
	schedule string
	svc      Refresher
	logger   *slog.Logger
}

// NewPoller creates a poller. The schedule accepts standard five-field cron
// expressions and descriptors such as "@every 5m".
func NewPoller(schedule string, svc Refresher, logger *slog.Logger) *Poller {
	return &Poller{schedule: schedule, svc: svc, logger: logger}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
// It waits for an in-flight refresh to finish before returning.
func (p *Poller) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(p.schedule, func() { p.refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", p.schedule, err)
	}

	p.refresh(ctx)

	p.logger.Info("poller started", "schedule", p.schedule)
	c.Start()

	<-ctx.Done()
	p.logger.Info("poller stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

func (p *Poller) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// Failures are already logged and counted by the service.
	_, _ = p.svc.Refresh(ctx)
}
