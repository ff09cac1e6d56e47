package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/testdb"
)

func TestCompetitionRepositoryGetCompetition(t *testing.T) {
	f := testdb.NewFixture(t)
	city := f.City("alpha")
	bike := f.Mode("bicycle", true)
	team := f.Team(f.Subsidiary(f.Company("X").ID, city.ID).ID)
	rider := f.Individual(&team.ID)

	stored := f.Competition(model.Competition{
		CompetitionType:       model.CompetitionTypeLength,
		CompetitorType:        model.CompetitorTypeIndividual,
		CityIDs:               []uuid.UUID{city.ID},
		CommuteModeIDs:        []uuid.UUID{bike.ID},
		IndividualCompetitors: testdb.Admit(model.CompetitorKindIndividual, rider.ID),
		TeamCompetitors:       testdb.Admit(model.CompetitorKindTeam, team.ID),
	})

	repo := NewCompetitionRepository(f.DB)
	competition, err := repo.GetCompetition(context.Background(), stored.ID)
	require.NoError(t, err)
	require.Equal(t, model.CompetitionTypeLength, competition.CompetitionType)
	require.Equal(t, []uuid.UUID{city.ID}, competition.CityIDs)
	require.Equal(t, []uuid.UUID{bike.ID}, competition.CommuteModeIDs)
	require.Len(t, competition.IndividualCompetitors, 1)
	require.Equal(t, rider.ID, competition.IndividualCompetitors[0].CompetitorID)
	require.Len(t, competition.TeamCompetitors, 1)
	require.Equal(t, team.ID, competition.TeamCompetitors[0].CompetitorID)
	require.Empty(t, competition.CompanyCompetitors)

	_, err = repo.GetCompetition(context.Background(), uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCompetitionRepositoryPhasesModesAndAnswers(t *testing.T) {
	f := testdb.NewFixture(t)
	repo := NewCompetitionRepository(f.DB)
	ctx := context.Background()

	phase, err := repo.GetPhase(ctx, f.Campaign.ID, model.PhaseTypeCompetition)
	require.NoError(t, err)
	require.Nil(t, phase)

	f.Phase(model.PhaseTypeRegistration, testdb.Day(1), testdb.Day(3))
	f.Phase(model.PhaseTypeCompetition, testdb.Day(4), testdb.Day(31))
	phase, err = repo.GetPhase(ctx, f.Campaign.ID, model.PhaseTypeCompetition)
	require.NoError(t, err)
	require.NotNil(t, phase)
	require.True(t, phase.DateFrom.Equal(testdb.Day(4)))

	bike := f.Mode("bicycle", true)
	walk := f.Mode("by_foot", true)
	f.Mode("car", false)
	modes, err := repo.CountedModeIDs(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{bike.ID, walk.ID}, modes)

	competition := f.Competition(model.Competition{
		CompetitionType: model.CompetitionTypeQuestionnaire,
		CompetitorType:  model.CompetitorTypeIndividual,
	})
	a, b := f.Individual(nil), f.Individual(nil)
	f.Answer(competition.ID, a.ID)
	f.Answer(uuid.New(), b.ID)

	count, err := repo.CountAnswers(ctx, competition.ID, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = repo.CountAnswers(ctx, competition.ID, nil)
	require.NoError(t, err)
	require.Zero(t, count)

	ids, err := repo.ListCompetitionIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{competition.ID}, ids)
}
