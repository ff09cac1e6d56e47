package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/commute-results/internal/config"
	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/repository"
	"github.com/nurpe/commute-results/internal/testdb"
)

type harness struct {
	*testdb.Fixture
	service *ResultService
	scorer  *Scorer
}

func newHarness(t *testing.T, now time.Time, cached bool) *harness {
	t.Helper()
	f := testdb.NewFixture(t)

	trips := repository.NewTripRepository(f.DB)
	competitors := repository.NewCompetitorRepository(f.DB)
	competitions := repository.NewCompetitionRepository(f.DB)
	var cache AggregateSource
	if cached {
		cache = repository.NewAggregateRepository(f.DB)
	}
	scorer := NewScorer(trips, competitors, competitions, cache)

	cfg := &config.Config{
		Scoring:   config.ScoringConfig{Workers: 4, UseCachedAggregates: cached},
		Scheduler: config.SchedulerConfig{Concurrency: 2, GracePeriod: 48 * time.Hour},
	}
	svc := NewResultService(competitions, repository.NewResultRepository(f.DB), NewResolver(competitors), scorer, nil, cfg, zerolog.Nop())
	svc.now = func() time.Time { return now }

	return &harness{Fixture: f, service: svc, scorer: scorer}
}

// legs records n counted trip legs, two per day starting on day 1.
func (h *harness) legs(individualID, modeID uuid.UUID, n int, km float64) {
	for i := 0; i < n; i++ {
		direction := model.DirectionToWork
		if i%2 == 1 {
			direction = model.DirectionFromWork
		}
		h.Trip(individualID, testdb.Day(1+i/2), direction, modeID, testdb.Float(km))
	}
}

// refreshCounters sets the cached counters of one individual.
func (h *harness) refreshCounters(t *testing.T, individualID uuid.UUID, rides int64, km float64, at time.Time) {
	t.Helper()
	err := h.DB.Model(&model.UserAttendance{}).Where("id = ?", individualID).Updates(map[string]interface{}{
		"ride_count":            rides,
		"length_total":          km,
		"aggregates_updated_at": at.UTC(),
	}).Error
	if err != nil {
		t.Fatalf("refresh counters: %v", err)
	}
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func intPtr(v int) *int {
	return &v
}
