package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"findata-api/internal/storage"
)

func TestSeriesStoreCRUD(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	ticker := "XAUUSD"

	created, err := store.CreateSeries(ctx, storage.Series{
		SeriesName: "Gold Spot USD",
		Ticker:     &ticker,
		IsActive:   true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.SeriesID)
	require.Equal(t, 1, created.VersionNumber)
	require.True(t, created.IsActive)
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := store.GetSeries(ctx, created.SeriesID)
	require.NoError(t, err)
	require.Equal(t, "Gold Spot USD", fetched.SeriesName)
	require.NotNil(t, fetched.Ticker)
	require.Equal(t, ticker, *fetched.Ticker)

	fetched.SeriesName = "Gold Spot (USD)"
	updated, err := store.UpdateSeries(ctx, created.SeriesID, fetched)
	require.NoError(t, err)
	require.Equal(t, 2, updated.VersionNumber)
	require.Equal(t, "Gold Spot (USD)", updated.SeriesName)

	require.NoError(t, store.SoftDeleteSeries(ctx, created.SeriesID))

	// Soft-deleted rows stay fetchable by id.
	afterDelete, err := store.GetSeries(ctx, created.SeriesID)
	require.NoError(t, err)
	require.False(t, afterDelete.IsActive)

	active, err := store.ListSeries(ctx, storage.SeriesFilter{})
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := store.ListSeries(ctx, storage.SeriesFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSeriesStoreErrors(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.GetSeries(ctx, 12345)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.UpdateSeries(ctx, 12345, storage.Series{SeriesName: "ghost"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, store.SoftDeleteSeries(ctx, 12345), storage.ErrNotFound)

	badLookup := int64(99999)
	_, err = store.CreateSeries(ctx, storage.Series{
		SeriesName:   "Broken",
		AssetClassID: &badLookup,
		IsActive:     true,
	})
	require.ErrorIs(t, err, storage.ErrForeignKey)
}

func TestSeriesStoreFilters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	desc := "Physical commodities"
	commodity, err := store.CreateAssetClass(ctx, storage.AssetClass{AssetClassName: "Commodity", Description: &desc})
	require.NoError(t, err)

	goldTicker := "XAUUSD"
	_, err = store.CreateSeries(ctx, storage.Series{
		SeriesName:   "Gold Spot USD",
		Ticker:       &goldTicker,
		AssetClassID: &commodity.AssetClassID,
		IsActive:     true,
	})
	require.NoError(t, err)

	method := "average"
	derived, err := store.CreateSeries(ctx, storage.Series{
		SeriesName:        "Metals Index",
		IsDerived:         true,
		CalculationMethod: &method,
		IsActive:          true,
	})
	require.NoError(t, err)

	isDerived := true
	derivedOnly, err := store.ListSeries(ctx, storage.SeriesFilter{IsDerived: &isDerived})
	require.NoError(t, err)
	require.Len(t, derivedOnly, 1)
	require.Equal(t, derived.SeriesID, derivedOnly[0].SeriesID)

	byAssetClass, err := store.ListSeries(ctx, storage.SeriesFilter{AssetClassID: &commodity.AssetClassID})
	require.NoError(t, err)
	require.Len(t, byAssetClass, 1)
	require.Equal(t, "Gold Spot USD", byAssetClass[0].SeriesName)

	byName, err := store.ListSeries(ctx, storage.SeriesFilter{NameLike: "metals"})
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byTicker, err := store.ListSeries(ctx, storage.SeriesFilter{TickerLike: "xau"})
	require.NoError(t, err)
	require.Len(t, byTicker, 1)

	paged, err := store.ListSeries(ctx, storage.SeriesFilter{Page: storage.Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, paged, 1)

	byIDs, err := store.ListSeriesByIDs(ctx, []int64{derived.SeriesID})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	require.Equal(t, derived.SeriesID, byIDs[0].SeriesID)
}
