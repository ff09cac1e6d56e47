package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/repository"
	"github.com/nurpe/commute-results/internal/testdb"
)

func competitorIDs(competitors []model.Competitor) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(competitors))
	for _, c := range competitors {
		ids = append(ids, c.CompetitorID())
	}
	return ids
}

func TestResolverTeamAdmissions(t *testing.T) {
	f := testdb.NewFixture(t)
	subsidiary := f.Subsidiary(f.Company("X").ID, f.City("alpha").ID)
	admitted, other := f.Team(subsidiary.ID), f.Team(subsidiary.ID)
	resolver := NewResolver(repository.NewCompetitorRepository(f.DB))
	window := Window{From: testdb.Day(1), To: testdb.Day(14)}

	competition := &model.Competition{
		ID:              uuid.New(),
		CampaignID:      f.Campaign.ID,
		CompetitionType: model.CompetitionTypeLength,
		CompetitorType:  model.CompetitorTypeTeam,
		TeamCompetitors: testdb.Admit(model.CompetitorKindTeam, admitted.ID),
	}
	competitors, err := resolver.GetCompetitors(context.Background(), competition, window)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{admitted.ID}, competitorIDs(competitors))
	require.Equal(t, model.CompetitorKindTeam, competitors[0].CompetitorKind())

	competition.WithoutAdmission = true
	competitors, err = resolver.GetCompetitors(context.Background(), competition, window)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{admitted.ID, other.ID}, competitorIDs(competitors))
}

func TestResolverOrdersById(t *testing.T) {
	f := testdb.NewFixture(t)
	for i := 0; i < 6; i++ {
		f.Individual(nil)
	}
	resolver := NewResolver(repository.NewCompetitorRepository(f.DB))
	competition := &model.Competition{
		ID:               uuid.New(),
		CampaignID:       f.Campaign.ID,
		CompetitorType:   model.CompetitorTypeFreeAgent,
		WithoutAdmission: true,
	}

	competitors, err := resolver.GetCompetitors(context.Background(), competition, Window{From: testdb.Day(1), To: testdb.Day(2)})
	require.NoError(t, err)
	require.Len(t, competitors, 6)
	for i := 1; i < len(competitors); i++ {
		require.Less(t, competitors[i-1].CompetitorID().String(), competitors[i].CompetitorID().String())
	}
}

func TestResolverUnknownCompetitorType(t *testing.T) {
	f := testdb.NewFixture(t)
	resolver := NewResolver(repository.NewCompetitorRepository(f.DB))
	competition := &model.Competition{ID: uuid.New(), CampaignID: f.Campaign.ID, CompetitorType: "household"}

	_, err := resolver.GetCompetitors(context.Background(), competition, Window{From: testdb.Day(1), To: testdb.Day(2)})
	require.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestEntryCutoff(t *testing.T) {
	window := Window{From: testdb.Day(1), To: testdb.Day(14)}

	_, ok := entryCutoff(&model.Competition{}, window)
	require.False(t, ok)

	cutoff, ok := entryCutoff(&model.Competition{EntryAfterBeginningDays: intPtr(0)}, window)
	require.True(t, ok)
	require.Equal(t, testdb.Day(2).Add(-time.Nanosecond), cutoff)
}

func TestResolverMissingOwningCompany(t *testing.T) {
	f := testdb.NewFixture(t)
	resolver := NewResolver(repository.NewCompetitorRepository(f.DB))
	missing := uuid.New()
	competition := &model.Competition{
		ID:               uuid.New(),
		CampaignID:       f.Campaign.ID,
		CompetitorType:   model.CompetitorTypeCompany,
		CompanyID:        &missing,
		WithoutAdmission: true,
	}

	_, err := resolver.GetCompetitors(context.Background(), competition, Window{From: testdb.Day(1), To: testdb.Day(2)})
	require.True(t, errors.Is(err, ErrInvalidConfiguration))
}
