package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"findata-api/internal/storage"
)

func TestObservationStoreUpsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	series, err := store.CreateSeries(ctx, storage.Series{SeriesName: "Gold Spot USD", IsActive: true})
	require.NoError(t, err)

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	first, err := store.UpsertObservation(ctx, storage.Observation{
		SeriesID:   series.SeriesID,
		ObservedAt: day,
		Value:      decimal.RequireFromString("2412.50"),
	})
	require.NoError(t, err)
	require.True(t, first.Value.Equal(decimal.RequireFromString("2412.50")))

	// Writing the same key again overwrites the value in place.
	second, err := store.UpsertObservation(ctx, storage.Observation{
		SeriesID:   series.SeriesID,
		ObservedAt: day,
		Value:      decimal.RequireFromString("2415.00"),
	})
	require.NoError(t, err)
	require.True(t, second.Value.Equal(decimal.RequireFromString("2415.00")))
	require.True(t, first.CreatedAt.Equal(second.CreatedAt))

	fetched, err := store.GetObservation(ctx, series.SeriesID, day)
	require.NoError(t, err)
	require.True(t, fetched.Value.Equal(decimal.RequireFromString("2415.00")))

	_, err = store.GetObservation(ctx, series.SeriesID, day.AddDate(0, 0, 1))
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.UpsertObservation(ctx, storage.Observation{
		SeriesID:   99999,
		ObservedAt: day,
		Value:      decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, storage.ErrForeignKey)
}

func TestObservationStoreList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	gold, err := store.CreateSeries(ctx, storage.Series{SeriesName: "Gold Spot USD", IsActive: true})
	require.NoError(t, err)
	silver, err := store.CreateSeries(ctx, storage.Series{SeriesName: "Silver Spot USD", IsActive: true})
	require.NoError(t, err)

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.UpsertObservation(ctx, storage.Observation{
			SeriesID:   gold.SeriesID,
			ObservedAt: day.AddDate(0, 0, i),
			Value:      decimal.NewFromInt(int64(2400 + i)),
		})
		require.NoError(t, err)
	}
	_, err = store.UpsertObservation(ctx, storage.Observation{
		SeriesID:   silver.SeriesID,
		ObservedAt: day,
		Value:      decimal.RequireFromString("29.10"),
		IsDerived:  true,
	})
	require.NoError(t, err)

	all, err := store.ListObservations(ctx, storage.ObservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6)

	bySeries, err := store.ListObservations(ctx, storage.ObservationFilter{SeriesIDs: []int64{gold.SeriesID}})
	require.NoError(t, err)
	require.Len(t, bySeries, 5)
	for i := 1; i < len(bySeries); i++ {
		require.True(t, bySeries[i-1].ObservedAt.Before(bySeries[i].ObservedAt))
	}

	from := day.AddDate(0, 0, 3)
	ranged, err := store.ListObservations(ctx, storage.ObservationFilter{SeriesIDs: []int64{gold.SeriesID}, From: &from})
	require.NoError(t, err)
	require.Len(t, ranged, 2)

	to := day.AddDate(0, 0, 1)
	ranged, err = store.ListObservations(ctx, storage.ObservationFilter{SeriesIDs: []int64{gold.SeriesID}, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2)

	isDerived := true
	derived, err := store.ListObservations(ctx, storage.ObservationFilter{IsDerived: &isDerived})
	require.NoError(t, err)
	require.Len(t, derived, 1)
	require.Equal(t, silver.SeriesID, derived[0].SeriesID)

	paged, err := store.ListObservations(ctx, storage.ObservationFilter{Page: storage.Page{Limit: 2, Offset: 4}})
	require.NoError(t, err)
	require.Len(t, paged, 2)
}
