package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/testdb"
)

func TestRank(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	best := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	marker := uuid.MustParse("00000000-0000-0000-0000-000000000004")

	rows := []model.CompetitionResult{
		{CompetitorID: marker, CompetitorKind: model.CompetitorKindIndividual},
		{CompetitorID: high, CompetitorKind: model.CompetitorKindIndividual, Result: testdb.Float(0.5)},
		{CompetitorID: best, CompetitorKind: model.CompetitorKindIndividual, Result: testdb.Float(0.9)},
		{CompetitorID: low, CompetitorKind: model.CompetitorKindIndividual, Result: testdb.Float(0.5)},
	}

	ranked := Rank(rows)
	require.Len(t, ranked, 4)

	order := make([]uuid.UUID, 0, len(ranked))
	for i, row := range ranked {
		require.Equal(t, i+1, row.Rank)
		order = append(order, row.CompetitorID)
	}
	require.Equal(t, []uuid.UUID{best, low, high, marker}, order)
	require.Nil(t, ranked[3].Result)

	require.Equal(t, marker, rows[0].CompetitorID, "input is not reordered")
	require.Empty(t, Rank(nil))
}
