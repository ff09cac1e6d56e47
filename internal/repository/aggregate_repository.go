package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Aggregate is a denormalized counter snapshot kept on individuals.
type Aggregate struct {
	RideCount   int64
	LengthTotal float64
	UpdatedAt   *time.Time
}

// AggregateRepository reads the cached counters; it never writes them.
type AggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// Individual returns the counters of one individual. Team counters are not served:
// they reflect the membership at refresh time.
func (r *AggregateRepository) Individual(ctx context.Context, id uuid.UUID) (Aggregate, error) {
	var row struct {
		ID                  uuid.UUID
		RideCount           int64
		LengthTotal         float64
		AggregatesUpdatedAt *time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, ride_count, length_total, aggregates_updated_at
		FROM user_attendances
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return Aggregate{}, err
	}
	if row.ID == uuid.Nil {
		return Aggregate{}, gorm.ErrRecordNotFound
	}
	return Aggregate{
		RideCount:   row.RideCount,
		LengthTotal: row.LengthTotal,
		UpdatedAt:   row.AggregatesUpdatedAt,
	}, nil
}
