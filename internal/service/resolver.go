package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/repository"
)

// Resolver decides which competitors take part in a competition.
type Resolver struct {
	competitors *repository.CompetitorRepository
}

func NewResolver(competitors *repository.CompetitorRepository) *Resolver {
	return &Resolver{competitors: competitors}
}

// GetCompetitors returns the eligible competitors ordered by id, without duplicates.
// Competitions that require admission keep only admitted competitors; admissions
// recorded after the entry cutoff are ignored.
func (r *Resolver) GetCompetitors(ctx context.Context, c *model.Competition, window Window) ([]model.Competitor, error) {
	eligible, err := r.eligible(ctx, c)
	if err != nil {
		return nil, err
	}
	eligible = dedupe(eligible)

	if c.WithoutAdmission {
		return eligible, nil
	}

	admitted := admittedIDs(c, window)
	result := make([]model.Competitor, 0, len(admitted))
	for _, competitor := range eligible {
		if _, ok := admitted[competitor.CompetitorID()]; ok {
			result = append(result, competitor)
		}
	}
	return result, nil
}

func (r *Resolver) eligible(ctx context.Context, c *model.Competition) ([]model.Competitor, error) {
	filter := repository.FilterForCompetition(c)

	switch c.CompetitorType {
	case model.CompetitorTypeIndividual:
		rows, err := r.competitors.ListIndividuals(ctx, filter)
		if err != nil {
			return nil, err
		}
		return individuals(rows), nil
	case model.CompetitorTypeFreeAgent:
		rows, err := r.competitors.ListFreeAgents(ctx, filter)
		if err != nil {
			return nil, err
		}
		return individuals(rows), nil
	case model.CompetitorTypeTeam:
		rows, err := r.competitors.ListTeams(ctx, filter)
		if err != nil {
			return nil, err
		}
		result := make([]model.Competitor, 0, len(rows))
		for _, row := range rows {
			result = append(result, row)
		}
		return result, nil
	case model.CompetitorTypeCompany:
		rows, err := r.competitors.ListCompanies(ctx, filter)
		if err != nil {
			return nil, err
		}
		if c.CompanyID != nil && len(rows) == 0 {
			return nil, configError(c.ID, "owning company %s does not exist", *c.CompanyID)
		}
		result := make([]model.Competitor, 0, len(rows))
		for _, row := range rows {
			result = append(result, row)
		}
		return result, nil
	default:
		return nil, configError(c.ID, "unknown competitor type %q", c.CompetitorType)
	}
}

func individuals(rows []model.UserAttendance) []model.Competitor {
	result := make([]model.Competitor, 0, len(rows))
	for _, row := range rows {
		result = append(result, row)
	}
	return result
}

func admittedIDs(c *model.Competition, window Window) map[uuid.UUID]struct{} {
	var admissions []model.Admission
	switch c.CompetitorType {
	case model.CompetitorTypeIndividual, model.CompetitorTypeFreeAgent:
		admissions = c.IndividualCompetitors
	case model.CompetitorTypeTeam:
		admissions = c.TeamCompetitors
	case model.CompetitorTypeCompany:
		admissions = c.CompanyCompetitors
	}

	cutoff, hasCutoff := entryCutoff(c, window)
	result := make(map[uuid.UUID]struct{}, len(admissions))
	for _, admission := range admissions {
		if hasCutoff && !admission.CreatedAt.IsZero() && admission.CreatedAt.After(cutoff) {
			continue
		}
		result[admission.CompetitorID] = struct{}{}
	}
	return result
}

// entryCutoff is the last instant an admission counts: the end of day
// window.From + entry_after_beginning_days.
func entryCutoff(c *model.Competition, window Window) (time.Time, bool) {
	if c.EntryAfterBeginningDays == nil {
		return time.Time{}, false
	}
	return window.From.AddDate(0, 0, *c.EntryAfterBeginningDays+1).Add(-time.Nanosecond), true
}

func dedupe(competitors []model.Competitor) []model.Competitor {
	seen := make(map[model.ResultKey]struct{}, len(competitors))
	result := make([]model.Competitor, 0, len(competitors))
	for _, competitor := range competitors {
		key := model.ResultKey{Kind: competitor.CompetitorKind(), ID: competitor.CompetitorID()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, competitor)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CompetitorID().String() < result[j].CompetitorID().String()
	})
	return result
}
