package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/nurpe/commute-results/internal/service"
)

type BatchRecalculator interface {
	RecalculateOpen(ctx context.Context) ([]service.BatchItem, error)
}

// Scheduler periodically recalculates open competitions. Runs never overlap.
type Scheduler struct {
	sched gocron.Scheduler
	log   zerolog.Logger
}

func New(ctx context.Context, recalculator BatchRecalculator, interval time.Duration, log zerolog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{sched: sched, log: log}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.run(ctx, recalculator)
		}),
		gocron.WithName("recalculate-open-competitions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register recalculation job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) run(ctx context.Context, recalculator BatchRecalculator) {
	items, err := recalculator.RecalculateOpen(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled recalculation failed")
		return
	}
	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}
	s.log.Info().
		Int("competitions", len(items)).
		Int("failed", failed).
		Msg("scheduled recalculation finished")
}
