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

func TestTripRepositorySumDistanceAndCountRides(t *testing.T) {
	f := testdb.NewFixture(t)
	bike := f.Mode("bicycle", true)
	car := f.Mode("car", false)
	rider := f.Individual(nil)
	other := f.Individual(nil)

	f.Trip(rider.ID, testdb.Day(1), model.DirectionToWork, bike.ID, testdb.Float(4))
	f.Trip(rider.ID, testdb.Day(1), model.DirectionFromWork, bike.ID, testdb.Float(4.25))
	f.Trip(rider.ID, testdb.Day(2), model.DirectionToWork, car.ID, testdb.Float(10))
	f.Trip(rider.ID, testdb.Day(3), model.DirectionToWork, bike.ID, nil)
	f.Trip(rider.ID, testdb.Day(10), model.DirectionToWork, bike.ID, testdb.Float(3))
	f.Trip(other.ID, testdb.Day(2), model.DirectionToWork, bike.ID, testdb.Float(7))

	repo := NewTripRepository(f.DB)
	ctx := context.Background()
	from, to := testdb.Day(1), testdb.Day(5)
	modes := []uuid.UUID{bike.ID}

	total, err := repo.SumDistance(ctx, []uuid.UUID{rider.ID}, from, to, modes)
	require.NoError(t, err)
	require.InDelta(t, 8.25, total, 1e-9)

	rides, err := repo.CountRides(ctx, []uuid.UUID{rider.ID}, from, to, modes)
	require.NoError(t, err)
	require.EqualValues(t, 3, rides)

	total, err = repo.SumDistance(ctx, []uuid.UUID{rider.ID, other.ID}, from, to, modes)
	require.NoError(t, err)
	require.InDelta(t, 15.25, total, 1e-9)

	rides, err = repo.CountRides(ctx, []uuid.UUID{rider.ID}, from, testdb.Day(1), modes)
	require.NoError(t, err)
	require.EqualValues(t, 2, rides, "window end is inclusive")
}

func TestTripRepositoryEmptyInputs(t *testing.T) {
	f := testdb.NewFixture(t)
	bike := f.Mode("bicycle", true)
	rider := f.Individual(nil)
	f.Trip(rider.ID, testdb.Day(1), model.DirectionToWork, bike.ID, testdb.Float(4))

	repo := NewTripRepository(f.DB)
	ctx := context.Background()

	total, err := repo.SumDistance(ctx, nil, testdb.Day(1), testdb.Day(5), []uuid.UUID{bike.ID})
	require.NoError(t, err)
	require.Zero(t, total)

	rides, err := repo.CountRides(ctx, []uuid.UUID{rider.ID}, testdb.Day(1), testdb.Day(5), nil)
	require.NoError(t, err)
	require.Zero(t, rides)

	last, err := repo.LastModified(ctx, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestTripRepositoryLastModified(t *testing.T) {
	f := testdb.NewFixture(t)
	bike := f.Mode("bicycle", true)
	rider := f.Individual(nil)
	first := f.Trip(rider.ID, testdb.Day(1), model.DirectionToWork, bike.ID, testdb.Float(4))
	f.Trip(rider.ID, testdb.Day(2), model.DirectionToWork, bike.ID, testdb.Float(4))

	touched := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, f.DB.Model(&model.Trip{}).Where("id = ?", first.ID).UpdateColumn("updated_at", touched).Error)

	last, err := NewTripRepository(f.DB).LastModified(context.Background(), []uuid.UUID{rider.ID})
	require.NoError(t, err)
	require.NotNil(t, last)
	require.True(t, last.Equal(touched), "got %s, want %s", last, touched)
}
