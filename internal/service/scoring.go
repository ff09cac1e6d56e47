package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/quota"
	"github.com/nurpe/commute-results/internal/repository"
)

// AggregateSource serves the denormalized ride_count/length_total counters of
// individuals. The counters cover every counted trip of the campaign phase.
type AggregateSource interface {
	Individual(ctx context.Context, id uuid.UUID) (repository.Aggregate, error)
}

// ScoreContext is everything a scoring function needs besides the competitor.
type ScoreContext struct {
	Competition *model.Competition
	Window      Window
	Modes       []uuid.UUID
	AsOf        time.Time
	// CacheEligible is set when the competition counts the default modes over
	// the whole competition phase, the precondition for reading cached counters.
	CacheEligible bool
}

// Score is a staged result. Nil fields are stored as NULL.
type Score struct {
	Result   *float64
	Dividend *float64
	Divisor  *float64
}

// Frequency is a ride count against a proportional quota.
type Frequency struct {
	Rides int64
	Quota int
	Ratio float64
}

func (f Frequency) Score() Score {
	return Score{
		Result:   floatPtr(f.Ratio),
		Dividend: floatPtr(float64(f.Rides)),
		Divisor:  floatPtr(float64(f.Quota)),
	}
}

// scoreFunc reports ok=false when the competitor gets no result row.
type scoreFunc func(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (score Score, ok bool, err error)

type scoringKey struct {
	competition model.CompetitionType
	competitor  model.CompetitorType
}

var scoringTable = map[scoringKey]scoreFunc{
	{model.CompetitionTypeLength, model.CompetitorTypeIndividual}:        scoreIndividualLength,
	{model.CompetitionTypeLength, model.CompetitorTypeFreeAgent}:         scoreIndividualLength,
	{model.CompetitionTypeLength, model.CompetitorTypeTeam}:              scoreTeamLength,
	{model.CompetitionTypeLength, model.CompetitorTypeCompany}:           scoreCompanyLength,
	{model.CompetitionTypeFrequency, model.CompetitorTypeIndividual}:     scoreIndividualFrequency,
	{model.CompetitionTypeFrequency, model.CompetitorTypeFreeAgent}:      scoreIndividualFrequency,
	{model.CompetitionTypeFrequency, model.CompetitorTypeTeam}:           scoreTeamFrequency,
	{model.CompetitionTypeFrequency, model.CompetitorTypeCompany}:        scoreCompanyFrequency,
	{model.CompetitionTypeQuestionnaire, model.CompetitorTypeIndividual}: markIndividualAnswer,
	{model.CompetitionTypeQuestionnaire, model.CompetitorTypeFreeAgent}:  markIndividualAnswer,
	{model.CompetitionTypeQuestionnaire, model.CompetitorTypeTeam}:       markTeamAnswer,
}

func lookupScoring(c *model.Competition) (scoreFunc, error) {
	fn, ok := scoringTable[scoringKey{competition: c.CompetitionType, competitor: c.CompetitorType}]
	if !ok {
		return nil, configError(c.ID, "unsupported combination of competition type %q and competitor type %q",
			c.CompetitionType, c.CompetitorType)
	}
	return fn, nil
}

type Scorer struct {
	trips        *repository.TripRepository
	competitors  *repository.CompetitorRepository
	competitions *repository.CompetitionRepository
	cache        AggregateSource
}

// NewScorer builds a scorer; a nil cache always aggregates raw trips.
func NewScorer(
	trips *repository.TripRepository,
	competitors *repository.CompetitorRepository,
	competitions *repository.CompetitionRepository,
	cache AggregateSource,
) *Scorer {
	return &Scorer{
		trips:        trips,
		competitors:  competitors,
		competitions: competitions,
		cache:        cache,
	}
}

// ScoreLength sums the distance of the individuals' trips in the window and modes, in km.
func (s *Scorer) ScoreLength(ctx context.Context, individualIDs []uuid.UUID, window Window, modes []uuid.UUID) (float64, error) {
	total, err := s.trips.SumDistance(ctx, individualIDs, window.From, window.To, modes)
	if err != nil {
		return 0, err
	}
	return roundKm(total), nil
}

// IndividualQuota is the number of legs one individual is expected to ride by sc.AsOf.
func IndividualQuota(sc ScoreContext) int {
	return quota.Proportional(sc.Window.From, sc.Window.To, sc.Competition.MinimumRidesBase*2, sc.AsOf)
}

// ScoreFrequency counts one individual's rides against the individual quota.
func (s *Scorer) ScoreFrequency(ctx context.Context, individualID uuid.UUID, sc ScoreContext) (Frequency, error) {
	rides, err := s.rides(ctx, sc, []uuid.UUID{individualID})
	if err != nil {
		return Frequency{}, err
	}
	return newFrequency(rides, IndividualQuota(sc)), nil
}

// ScoreTeamFrequency counts the rides of the team's current members against the
// individual quota times the current member count.
func (s *Scorer) ScoreTeamFrequency(ctx context.Context, teamID uuid.UUID, sc ScoreContext) (Frequency, error) {
	members, err := s.competitors.TeamMembers(ctx, teamID)
	if err != nil {
		return Frequency{}, err
	}
	rides, err := s.rides(ctx, sc, members)
	if err != nil {
		return Frequency{}, err
	}
	return newFrequency(rides, IndividualQuota(sc)*len(members)), nil
}

func newFrequency(rides int64, quota int) Frequency {
	f := Frequency{Rides: rides, Quota: quota}
	if quota > 0 {
		f.Ratio = float64(rides) / float64(quota)
	}
	return f
}

func (s *Scorer) rides(ctx context.Context, sc ScoreContext, members []uuid.UUID) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	agg, ok, err := s.fresh(ctx, sc, members)
	if err != nil {
		return 0, err
	}
	if ok {
		return agg.RideCount, nil
	}
	return s.trips.CountRides(ctx, members, sc.Window.From, sc.Window.To, sc.Modes)
}

func (s *Scorer) length(ctx context.Context, sc ScoreContext, members []uuid.UUID) (float64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	agg, ok, err := s.fresh(ctx, sc, members)
	if err != nil {
		return 0, err
	}
	if ok {
		return roundKm(agg.LengthTotal), nil
	}
	return s.ScoreLength(ctx, members, sc.Window, sc.Modes)
}

// fresh sums the cached counters of the given individuals. Team counters are
// never read: they follow the membership at refresh time, so the sum is taken
// over the current members instead. The sum is usable only when every member
// has been refreshed and no member trip changed after the oldest refresh.
func (s *Scorer) fresh(ctx context.Context, sc ScoreContext, members []uuid.UUID) (repository.Aggregate, bool, error) {
	if s.cache == nil || !sc.CacheEligible || len(members) == 0 {
		return repository.Aggregate{}, false, nil
	}

	var total repository.Aggregate
	for _, id := range members {
		agg, err := s.cache.Individual(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.Aggregate{}, false, nil
			}
			return repository.Aggregate{}, false, err
		}
		if agg.UpdatedAt == nil {
			return repository.Aggregate{}, false, nil
		}
		total.RideCount += agg.RideCount
		total.LengthTotal += agg.LengthTotal
		if total.UpdatedAt == nil || agg.UpdatedAt.Before(*total.UpdatedAt) {
			total.UpdatedAt = agg.UpdatedAt
		}
	}

	last, err := s.trips.LastModified(ctx, members)
	if err != nil {
		return repository.Aggregate{}, false, err
	}
	if last != nil && last.After(*total.UpdatedAt) {
		return repository.Aggregate{}, false, nil
	}
	return total, true, nil
}

func scoreIndividualLength(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	km, err := s.length(ctx, sc, []uuid.UUID{c.CompetitorID()})
	if err != nil {
		return Score{}, false, err
	}
	return Score{Result: floatPtr(km)}, true, nil
}

func scoreTeamLength(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	members, err := s.competitors.TeamMembers(ctx, c.CompetitorID())
	if err != nil {
		return Score{}, false, err
	}
	km, err := s.length(ctx, sc, members)
	if err != nil {
		return Score{}, false, err
	}
	return Score{Result: floatPtr(km)}, true, nil
}

func scoreCompanyLength(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	members, err := s.competitors.CompanyMembers(ctx, c.CompetitorID(), repository.FilterForCompetition(sc.Competition))
	if err != nil {
		return Score{}, false, err
	}
	km, err := s.ScoreLength(ctx, members, sc.Window, sc.Modes)
	if err != nil {
		return Score{}, false, err
	}
	return Score{Result: floatPtr(km)}, true, nil
}

func scoreIndividualFrequency(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	f, err := s.ScoreFrequency(ctx, c.CompetitorID(), sc)
	if err != nil {
		return Score{}, false, err
	}
	return f.Score(), true, nil
}

func scoreTeamFrequency(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	f, err := s.ScoreTeamFrequency(ctx, c.CompetitorID(), sc)
	if err != nil {
		return Score{}, false, err
	}
	return f.Score(), true, nil
}

func scoreCompanyFrequency(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	members, err := s.competitors.CompanyMembers(ctx, c.CompetitorID(), repository.FilterForCompetition(sc.Competition))
	if err != nil {
		return Score{}, false, err
	}
	rides, err := s.trips.CountRides(ctx, members, sc.Window.From, sc.Window.To, sc.Modes)
	if err != nil {
		return Score{}, false, err
	}
	return newFrequency(rides, IndividualQuota(sc)*len(members)).Score(), true, nil
}

func markIndividualAnswer(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	return s.markAnswered(ctx, sc, []uuid.UUID{c.CompetitorID()})
}

func markTeamAnswer(s *Scorer, ctx context.Context, sc ScoreContext, c model.Competitor) (Score, bool, error) {
	members, err := s.competitors.TeamMembers(ctx, c.CompetitorID())
	if err != nil {
		return Score{}, false, err
	}
	return s.markAnswered(ctx, sc, members)
}

// markAnswered stages an empty marker row when any of the individuals answered.
func (s *Scorer) markAnswered(ctx context.Context, sc ScoreContext, individualIDs []uuid.UUID) (Score, bool, error) {
	count, err := s.competitions.CountAnswers(ctx, sc.Competition.ID, individualIDs)
	if err != nil {
		return Score{}, false, err
	}
	return Score{}, count > 0, nil
}

func roundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}

func floatPtr(v float64) *float64 {
	return &v
}
