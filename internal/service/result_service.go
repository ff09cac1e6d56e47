package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/config"
	"github.com/nurpe/commute-results/internal/metrics"
	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/quota"
	"github.com/nurpe/commute-results/internal/repository"
)

// ResultService recalculates and serves competition results.
type ResultService struct {
	competitions *repository.CompetitionRepository
	results      *repository.ResultRepository
	resolver     *Resolver
	scorer       *Scorer
	metrics      *metrics.RecalculationMetrics
	log          zerolog.Logger
	workers      int
	concurrency  int
	grace        time.Duration
	now          func() time.Time
	locks        *keyedMutex
}

func NewResultService(
	competitions *repository.CompetitionRepository,
	results *repository.ResultRepository,
	resolver *Resolver,
	scorer *Scorer,
	m *metrics.RecalculationMetrics,
	cfg *config.Config,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		competitions: competitions,
		results:      results,
		resolver:     resolver,
		scorer:       scorer,
		metrics:      m,
		log:          log,
		workers:      cfg.Scoring.Workers,
		concurrency:  cfg.Scheduler.Concurrency,
		grace:        cfg.Scheduler.GracePeriod,
		now:          time.Now,
		locks:        newKeyedMutex(),
	}
}

// BatchItem is the outcome of one competition in a batch run.
type BatchItem struct {
	CompetitionID uuid.UUID                  `json:"competition_id"`
	Report        *model.RecalculationReport `json:"report,omitempty"`
	Error         string                     `json:"error,omitempty"`
}

// Recalculate resolves, scores and atomically replaces the result set of one
// competition. On error the stored results are left as they were.
func (s *ResultService) Recalculate(ctx context.Context, competitionID uuid.UUID) (*model.RecalculationReport, error) {
	unlock := s.locks.Lock(competitionID)
	defer unlock()

	started := time.Now()
	report, err := s.recalculate(ctx, competitionID)
	elapsed := time.Since(started)

	switch {
	case err == nil:
		report.Duration = elapsed
		s.metrics.ObserveRun(metrics.OutcomeOK, elapsed)
		s.metrics.ObserveRows(report.Created, report.Updated, report.Deleted)
		s.log.Info().
			Str("competition_id", competitionID.String()).
			Int("competitors", report.Competitors).
			Int("created", report.Created).
			Int("updated", report.Updated).
			Int("deleted", report.Deleted).
			Int("unchanged", report.Unchanged).
			Dur("elapsed", elapsed).
			Msg("competition results recalculated")
		return report, nil
	case errors.Is(err, ErrInvalidConfiguration):
		s.metrics.ObserveRun(metrics.OutcomeConfigError, elapsed)
	default:
		s.metrics.ObserveRun(metrics.OutcomeError, elapsed)
	}
	return nil, err
}

func (s *ResultService) recalculate(ctx context.Context, competitionID uuid.UUID) (*model.RecalculationReport, error) {
	competition, phase, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	window, err := ResolveWindow(competition, phase)
	if err != nil {
		return nil, err
	}
	score, err := lookupScoring(competition)
	if err != nil {
		return nil, err
	}

	modes := competition.CommuteModeIDs
	if len(modes) == 0 {
		modes, err = s.competitions.CountedModeIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load counted commute modes: %w", err)
		}
	}
	phaseWindow, hasPhaseWindow := PhaseWindow(phase)
	sc := ScoreContext{
		Competition:   competition,
		Window:        window,
		Modes:         modes,
		AsOf:          window.AsOf(s.now()),
		CacheEligible: len(competition.CommuteModeIDs) == 0 && hasPhaseWindow && phaseWindow.Equal(window),
	}

	competitors, err := s.resolver.GetCompetitors(ctx, competition, window)
	if err != nil {
		return nil, fmt.Errorf("resolve competitors: %w", err)
	}

	staged, err := s.stage(ctx, score, sc, competitors)
	if err != nil {
		return nil, fmt.Errorf("score competitors: %w", err)
	}

	now := s.now().UTC()
	changes, err := s.results.Replace(ctx, competitionID, func(existing []model.CompetitionResult) model.ResultChanges {
		return PlanChanges(competitionID, existing, staged, now)
	})
	if err != nil {
		return nil, fmt.Errorf("replace results: %w", err)
	}

	return &model.RecalculationReport{
		CompetitionID: competitionID,
		Competitors:   len(competitors),
		Created:       len(changes.Create),
		Updated:       len(changes.Update),
		Deleted:       len(changes.Delete),
		Unchanged:     changes.Unchanged,
	}, nil
}

func (s *ResultService) load(ctx context.Context, competitionID uuid.UUID) (*model.Competition, *model.Phase, error) {
	competition, err := s.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load competition: %w", err)
	}
	phase, err := s.competitions.GetPhase(ctx, competition.CampaignID, model.PhaseTypeCompetition)
	if err != nil {
		return nil, nil, fmt.Errorf("load competition phase: %w", err)
	}
	return competition, phase, nil
}

// stage scores every competitor in parallel and collects the rows in competitor order.
func (s *ResultService) stage(ctx context.Context, score scoreFunc, sc ScoreContext, competitors []model.Competitor) ([]model.CompetitionResult, error) {
	type slot struct {
		score Score
		ok    bool
	}
	slots := make([]slot, len(competitors))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, competitor := range competitors {
		g.Go(func() error {
			result, ok, err := score(s.scorer, gCtx, sc, competitor)
			if err != nil {
				return fmt.Errorf("%s %s: %w", competitor.CompetitorKind(), competitor.CompetitorID(), err)
			}
			slots[i] = slot{score: result, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	staged := make([]model.CompetitionResult, 0, len(competitors))
	for i, competitor := range competitors {
		if !slots[i].ok {
			continue
		}
		staged = append(staged, model.CompetitionResult{
			CompetitionID:  sc.Competition.ID,
			CompetitorKind: competitor.CompetitorKind(),
			CompetitorID:   competitor.CompetitorID(),
			Result:         slots[i].score.Result,
			ResultDividend: slots[i].score.Dividend,
			ResultDivisor:  slots[i].score.Divisor,
		})
	}
	return staged, nil
}

// PlanChanges diffs the staged rows against the stored ones. Stored rows whose
// values already match are left untouched so repeated runs write nothing.
func PlanChanges(competitionID uuid.UUID, existing, staged []model.CompetitionResult, now time.Time) model.ResultChanges {
	stored := make(map[model.ResultKey]model.CompetitionResult, len(existing))
	for _, row := range existing {
		stored[row.Key()] = row
	}

	var changes model.ResultChanges
	for _, row := range staged {
		key := row.Key()
		current, ok := stored[key]
		if !ok {
			row.ID = uuid.New()
			row.CompetitionID = competitionID
			row.CreatedAt = now
			row.UpdatedAt = now
			changes.Create = append(changes.Create, row)
			continue
		}
		delete(stored, key)
		if sameFloat(current.Result, row.Result) &&
			sameFloat(current.ResultDividend, row.ResultDividend) &&
			sameFloat(current.ResultDivisor, row.ResultDivisor) {
			changes.Unchanged++
			continue
		}
		current.Result = row.Result
		current.ResultDividend = row.ResultDividend
		current.ResultDivisor = row.ResultDivisor
		current.UpdatedAt = now
		changes.Update = append(changes.Update, current)
	}

	for _, row := range stored {
		changes.Delete = append(changes.Delete, row.ID)
	}
	sort.Slice(changes.Delete, func(i, j int) bool {
		return changes.Delete[i].String() < changes.Delete[j].String()
	})
	return changes
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Results returns the stored results of a competition in rank order.
func (s *ResultService) Results(ctx context.Context, competitionID uuid.UUID) ([]model.RankedResult, error) {
	if _, err := s.competitions.GetCompetition(ctx, competitionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.results.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	return Rank(rows), nil
}

// RecalculateOpen recalculates every competition whose window contains now or
// closed within the grace period. A failing competition does not stop the others.
func (s *ResultService) RecalculateOpen(ctx context.Context) ([]BatchItem, error) {
	ids, err := s.competitions.ListCompetitionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	now := s.now()
	items := make([]BatchItem, 0, len(ids))
	for _, id := range ids {
		open, err := s.isOpen(ctx, id, now)
		if err != nil {
			if errors.Is(err, ErrInvalidConfiguration) {
				items = append(items, BatchItem{CompetitionID: id, Error: err.Error()})
				continue
			}
			return nil, err
		}
		if open {
			items = append(items, BatchItem{CompetitionID: id})
		}
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range items {
		if items[i].Error != "" {
			continue
		}
		g.Go(func() error {
			report, err := s.Recalculate(ctx, items[i].CompetitionID)
			if err != nil {
				s.log.Error().Err(err).
					Str("competition_id", items[i].CompetitionID.String()).
					Msg("recalculation failed")
				items[i].Error = err.Error()
				return nil
			}
			items[i].Report = report
			return nil
		})
	}
	_ = g.Wait()
	return items, nil
}

func (s *ResultService) isOpen(ctx context.Context, competitionID uuid.UUID, now time.Time) (bool, error) {
	competition, phase, err := s.load(ctx, competitionID)
	if err != nil {
		return false, err
	}
	window, err := ResolveWindow(competition, phase)
	if err != nil {
		return false, err
	}
	if window.Contains(now) {
		return true, nil
	}
	today := quota.DateOnly(now)
	if today.Before(window.From) {
		return false, nil
	}
	return today.Before(window.To.AddDate(0, 0, 1).Add(s.grace)), nil
}
