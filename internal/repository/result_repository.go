package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/commute-results/internal/model"
)

const resultBatchSize = 200

type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]model.CompetitionResult, error) {
	return listResults(r.db.WithContext(ctx), competitionID)
}

// Replace locks the competition row, hands the stored results to plan and applies
// the returned changes in the same transaction. Nothing is written if any step fails.
func (r *ResultRepository) Replace(
	ctx context.Context,
	competitionID uuid.UUID,
	plan func(existing []model.CompetitionResult) model.ResultChanges,
) (model.ResultChanges, error) {
	var changes model.ResultChanges
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.Competition
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", competitionID).
			Take(&locked).Error; err != nil {
			return fmt.Errorf("lock competition: %w", err)
		}

		existing, err := listResults(tx, competitionID)
		if err != nil {
			return fmt.Errorf("load stored results: %w", err)
		}

		changes = plan(existing)

		if len(changes.Delete) > 0 {
			if err := tx.Where("competition_id = ? AND id IN ?", competitionID, changes.Delete).
				Delete(&model.CompetitionResult{}).Error; err != nil {
				return fmt.Errorf("delete results: %w", err)
			}
		}
		for _, row := range changes.Update {
			if err := tx.Model(&model.CompetitionResult{}).
				Where("id = ?", row.ID).
				Updates(map[string]interface{}{
					"result":          row.Result,
					"result_dividend": row.ResultDividend,
					"result_divisor":  row.ResultDivisor,
					"updated_at":      row.UpdatedAt,
				}).Error; err != nil {
				return fmt.Errorf("update result %s: %w", row.ID, err)
			}
		}
		if len(changes.Create) > 0 {
			if err := tx.CreateInBatches(changes.Create, resultBatchSize).Error; err != nil {
				return fmt.Errorf("insert results: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return model.ResultChanges{}, err
	}
	return changes, nil
}

func listResults(db *gorm.DB, competitionID uuid.UUID) ([]model.CompetitionResult, error) {
	var rows []model.CompetitionResult
	if err := db.Where("competition_id = ?", competitionID).
		Order("competitor_kind ASC, competitor_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
