package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/model"
)

// TripRepository is the read side of the trip ledger.
type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

// SumDistance sums trip distances in km. Unmeasured trips count as zero.
func (r *TripRepository) SumDistance(
	ctx context.Context,
	individualIDs []uuid.UUID,
	from, to time.Time,
	modeIDs []uuid.UUID,
) (float64, error) {
	if len(individualIDs) == 0 || len(modeIDs) == 0 {
		return 0, nil
	}
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Trip{}).
		Select("COALESCE(SUM(COALESCE(distance, 0)), 0)").
		Scopes(tripScope(individualIDs, from, to, modeIDs)).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CountRides counts directional legs; a round trip is two rides.
func (r *TripRepository) CountRides(
	ctx context.Context,
	individualIDs []uuid.UUID,
	from, to time.Time,
	modeIDs []uuid.UUID,
) (int64, error) {
	if len(individualIDs) == 0 || len(modeIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Trip{}).
		Scopes(tripScope(individualIDs, from, to, modeIDs)).
		Where("direction IN ?", []model.Direction{model.DirectionToWork, model.DirectionFromWork}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LastModified returns the latest trip modification of the given individuals, nil when they have none.
func (r *TripRepository) LastModified(ctx context.Context, individualIDs []uuid.UUID) (*time.Time, error) {
	if len(individualIDs) == 0 {
		return nil, nil
	}
	var trip model.Trip
	err := r.db.WithContext(ctx).
		Select("id", "updated_at").
		Where("user_attendance_id IN ?", individualIDs).
		Order("updated_at DESC").
		Take(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip.UpdatedAt, nil
}
