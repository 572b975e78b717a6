// Package scheduler pushes periodic analytics snapshots to connected admins.
package scheduler

import (
	"context"
	"log"

	"grievance/backend/internal/hub"
	"grievance/backend/internal/models"
	"grievance/backend/internal/stats"

	"github.com/robfig/cron/v3"
)

// StatsSource computes the dashboard figures.
type StatsSource interface {
	Compute(ctx context.Context) (*stats.Stats, error)
}

type Scheduler struct {
	cron     *cron.Cron
	Stats    StatsSource
	Notifier hub.Dispatcher
}

// New registers the stats broadcast under schedule, a six-field cron expression
// with seconds.
func New(schedule string, s StatsSource, n hub.Dispatcher) (*Scheduler, error) {
	sch := &Scheduler{cron: cron.New(cron.WithSeconds()), Stats: s, Notifier: n}
	if _, err := sch.cron.AddFunc(schedule, func() {
		sch.BroadcastStats(context.Background())
	}); err != nil {
		return nil, err
	}
	return sch, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("INFO: Scheduler started")
}

// Stop prevents new runs and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	log.Println("INFO: Scheduler stopped")
}

// BroadcastStats sends one stats-updated event to the admin group.
func (s *Scheduler) BroadcastStats(ctx context.Context) {
	st, err := s.Stats.Compute(ctx)
	if err != nil {
		log.Printf("ERROR: scheduled stats failed: %v", err)
		return
	}
	s.Notifier.ToRole(models.RoleAdmin, models.EventStatsUpdated, st)
}
