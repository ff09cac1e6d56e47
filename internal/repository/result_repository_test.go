package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/testdb"
)

func resultRow(competitionID, competitorID uuid.UUID, result float64) model.CompetitionResult {
	now := time.Now().UTC()
	return model.CompetitionResult{
		ID:             uuid.New(),
		CompetitionID:  competitionID,
		CompetitorKind: model.CompetitorKindIndividual,
		CompetitorID:   competitorID,
		Result:         testdb.Float(result),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestResultRepositoryReplace(t *testing.T) {
	f := testdb.NewFixture(t)
	competition := f.Competition(model.Competition{
		CompetitionType: model.CompetitionTypeLength,
		CompetitorType:  model.CompetitorTypeIndividual,
	})
	repo := NewResultRepository(f.DB)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	changes, err := repo.Replace(ctx, competition.ID, func(existing []model.CompetitionResult) model.ResultChanges {
		require.Empty(t, existing)
		return model.ResultChanges{Create: []model.CompetitionResult{
			resultRow(competition.ID, first, 12.5),
			resultRow(competition.ID, second, 3),
		}}
	})
	require.NoError(t, err)
	require.Len(t, changes.Create, 2)

	stored, err := repo.ListByCompetition(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	_, err = repo.Replace(ctx, competition.ID, func(existing []model.CompetitionResult) model.ResultChanges {
		require.Len(t, existing, 2)
		var plan model.ResultChanges
		for _, row := range existing {
			if row.CompetitorID == first {
				row.Result = testdb.Float(20)
				row.ResultDividend = testdb.Float(40)
				plan.Update = append(plan.Update, row)
				continue
			}
			plan.Delete = append(plan.Delete, row.ID)
		}
		return plan
	})
	require.NoError(t, err)

	stored, err = repo.ListByCompetition(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, first, stored[0].CompetitorID)
	require.InDelta(t, 20, *stored[0].Result, 1e-9)
	require.InDelta(t, 40, *stored[0].ResultDividend, 1e-9)
	require.Nil(t, stored[0].ResultDivisor)
}

func TestResultRepositoryReplaceRollsBack(t *testing.T) {
	f := testdb.NewFixture(t)
	competition := f.Competition(model.Competition{
		CompetitionType: model.CompetitionTypeLength,
		CompetitorType:  model.CompetitorTypeIndividual,
	})
	repo := NewResultRepository(f.DB)
	ctx := context.Background()
	competitor := uuid.New()

	_, err := repo.Replace(ctx, competition.ID, func([]model.CompetitionResult) model.ResultChanges {
		return model.ResultChanges{Create: []model.CompetitionResult{resultRow(competition.ID, competitor, 1)}}
	})
	require.NoError(t, err)

	// The duplicate competitor violates the unique index after the delete ran.
	_, err = repo.Replace(ctx, competition.ID, func(existing []model.CompetitionResult) model.ResultChanges {
		return model.ResultChanges{
			Delete: []uuid.UUID{existing[0].ID},
			Create: []model.CompetitionResult{
				resultRow(competition.ID, competitor, 2),
				resultRow(competition.ID, competitor, 3),
			},
		}
	})
	require.Error(t, err)

	stored, err := repo.ListByCompetition(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.InDelta(t, 1, *stored[0].Result, 1e-9)
}

func TestResultRepositoryReplaceUnknownCompetition(t *testing.T) {
	f := testdb.NewFixture(t)
	called := false
	_, err := NewResultRepository(f.DB).Replace(context.Background(), uuid.New(), func([]model.CompetitionResult) model.ResultChanges {
		called = true
		return model.ResultChanges{}
	})
	require.Error(t, err)
	require.False(t, called)
}
