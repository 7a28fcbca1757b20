package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/avenside/inkpost-be/internal/services"
)

// Pruner periodically removes old activity entries so the log does not
// grow without bound.
type Pruner struct {
	activitySvc services.ActivityServiceProvider
	schedule    cron.Schedule
	retention   time.Duration
	ticker      *time.Ticker
	done        chan bool
	nextRun     time.Time
}

// NewPruner creates a pruner that fires on the given cron expression and
// keeps entries younger than retentionDays.
func NewPruner(activitySvc services.ActivityServiceProvider, cronExpr string, retentionDays int) (*Pruner, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", cronExpr, err)
	}
	return &Pruner{
		activitySvc: activitySvc,
		schedule:    schedule,
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		done:        make(chan bool),
	}, nil
}

// Run starts the pruner's ticking loop.
func (p *Pruner) Run() {
	log.Info().Msg("Starting activity log pruner")
	p.ticker = time.NewTicker(1 * time.Minute)
	defer p.ticker.Stop()

	p.nextRun = p.schedule.Next(time.Now())

	for {
		select {
		case <-p.done:
			log.Info().Msg("Stopping activity log pruner")
			return
		case <-p.ticker.C:
			now := time.Now()
			if now.After(p.nextRun) {
				p.prune(now)
				p.nextRun = p.schedule.Next(now)
			}
		}
	}
}

// Stop halts the pruner.
func (p *Pruner) Stop() {
	p.done <- true
}

func (p *Pruner) prune(now time.Time) {
	cutoff := now.Add(-p.retention)
	removed, err := p.activitySvc.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune activity log")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Pruned activity log")
	}
}
