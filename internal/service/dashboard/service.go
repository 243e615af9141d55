package dashboard

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

const snapshotCacheKey = "dashboard_snapshot"

// Service computes the operational dashboard snapshot. It owns no state
// beyond a short-lived cache; every computation re-reads the store.
type Service struct {
	repo  repository.AppointmentRepository
	cache *cache.Cache
}

func NewService(repo repository.AppointmentRepository, cacheTTL time.Duration) *Service {
	var c *cache.Cache
	if cacheTTL > 0 {
		c = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &Service{repo: repo, cache: c}
}

// Snapshot computes today's load, the 7-day pipeline, projected revenue
// over that window and the next upcoming client, all as of now. Either the
// whole snapshot is returned or none of it. When caching is enabled a
// snapshot computed within the TTL is returned regardless of now, so the
// result may be up to one TTL stale.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (*model.DashboardSnapshot, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(snapshotCacheKey); ok {
			return cached.(*model.DashboardSnapshot), nil
		}
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekEnd := dayStart.AddDate(0, 0, 7)

	todayCount, err := s.repo.CountScheduledBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	weekCount, err := s.repo.CountScheduledBetween(ctx, dayStart, weekEnd)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	revenue, err := s.repo.SumScheduledRevenueBetween(ctx, dayStart, weekEnd)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	next, err := s.repo.NextScheduled(ctx, now)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	snapshot := &model.DashboardSnapshot{
		AppointmentsToday:    todayCount,
		UpcomingAppointments: weekCount,
		EstimatedRevenue:     revenue,
		NextClient:           nextClient(next),
	}

	if s.cache != nil {
		s.cache.Set(snapshotCacheKey, snapshot, cache.DefaultExpiration)
	}
	return snapshot, nil
}

func nextClient(next *model.AppointmentDetails) *model.NextClient {
	if next == nil {
		return nil
	}
	return &model.NextClient{
		AppointmentID: next.ID,
		PatientID:     next.PatientID,
		Name:          next.PatientName,
		Service:       next.ServiceName,
		Time:          next.StartTime.Format("3:04 PM"),
		SkinType:      next.SkinType,
		Sensitivities: next.Sensitivities,
	}
}
