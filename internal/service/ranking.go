package service

import (
	"sort"

	"github.com/nurpe/commute-results/internal/model"
)

// Rank orders results by score descending with rows without a score last;
// equal scores fall back to competitor id ascending. Positions start at 1.
func Rank(rows []model.CompetitionResult) []model.RankedResult {
	sorted := make([]model.CompetitionResult, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.Result != nil && b.Result == nil:
			return true
		case a.Result == nil && b.Result != nil:
			return false
		case a.Result != nil && b.Result != nil && *a.Result != *b.Result:
			return *a.Result > *b.Result
		}
		return a.CompetitorID.String() < b.CompetitorID.String()
	})

	ranked := make([]model.RankedResult, 0, len(sorted))
	for i, row := range sorted {
		ranked = append(ranked, model.RankedResult{
			Rank:           i + 1,
			CompetitorKind: row.CompetitorKind,
			CompetitorID:   row.CompetitorID,
			Result:         row.Result,
			ResultDividend: row.ResultDividend,
			ResultDivisor:  row.ResultDivisor,
		})
	}
	return ranked
}
