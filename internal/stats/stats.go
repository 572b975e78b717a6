// Package stats computes the admin dashboard aggregates.
package stats

import (
	"context"
	"math"
	"time"

	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"

	"golang.org/x/sync/errgroup"
)

// Store is the read side the aggregator needs.
type Store interface {
	CountComplaints(ctx context.Context) (int64, error)
	CountComplaintsBy(ctx context.Context, column string) (map[string]int64, error)
	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	ResolvedSpans(ctx context.Context) ([]storage.Span, error)
	RecentComplaints(ctx context.Context, limit int) ([]models.Complaint, error)
}

// Stats is the dashboard snapshot.
type Stats struct {
	TotalComplaints int64            `json:"totalComplaints"`
	ByStatus        map[string]int64 `json:"byStatus"`
	ByCategory      map[string]int64 `json:"byCategory"`
	ByPriority      map[string]int64 `json:"byPriority"`
	UsersByRole     map[string]int64 `json:"usersByRole"`

	// ResolutionRate is resolved/total, 0 when there are no complaints.
	ResolutionRate float64 `json:"resolutionRate"`
	// AvgResolutionTime is in days over complaints that carry a resolvedAt.
	AvgResolutionTime float64 `json:"avgResolutionTime"`

	Recent []models.Complaint `json:"recentComplaints"`
}

type Aggregator struct {
	Store Store
}

func NewAggregator(s Store) *Aggregator {
	return &Aggregator{Store: s}
}

// Compute reads every aggregate concurrently. It never writes.
func (a *Aggregator) Compute(ctx context.Context) (*Stats, error) {
	var (
		st    Stats
		spans []storage.Span
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.TotalComplaints, err = a.Store.CountComplaints(ctx)
		return
	})
	g.Go(func() (err error) {
		st.ByStatus, err = a.Store.CountComplaintsBy(ctx, "status")
		return
	})
	g.Go(func() (err error) {
		st.ByCategory, err = a.Store.CountComplaintsBy(ctx, "category")
		return
	})
	g.Go(func() (err error) {
		st.ByPriority, err = a.Store.CountComplaintsBy(ctx, "priority")
		return
	})
	g.Go(func() (err error) {
		st.UsersByRole, err = a.Store.CountUsersByRole(ctx)
		return
	})
	g.Go(func() (err error) {
		spans, err = a.Store.ResolvedSpans(ctx)
		return
	})
	g.Go(func() (err error) {
		st.Recent, err = a.Store.RecentComplaints(ctx, config.RecentComplaintsSize)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if st.TotalComplaints > 0 {
		st.ResolutionRate = round2(float64(st.ByStatus[string(models.StatusResolved)]) / float64(st.TotalComplaints))
	}
	st.AvgResolutionTime = round2(averageDays(spans))
	fill(&st)
	return &st, nil
}

func averageDays(spans []storage.Span) float64 {
	if len(spans) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range spans {
		total += s.ResolvedAt.Sub(s.CreatedAt)
	}
	return total.Hours() / 24 / float64(len(spans))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// fill replaces nil maps and slices so the JSON carries {} and [] instead of null.
func fill(st *Stats) {
	for _, m := range []*map[string]int64{&st.ByStatus, &st.ByCategory, &st.ByPriority, &st.UsersByRole} {
		if *m == nil {
			*m = map[string]int64{}
		}
	}
	if st.Recent == nil {
		st.Recent = []models.Complaint{}
	}
}
