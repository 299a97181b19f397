package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"findata-api/internal/storage"
)

func TestLookupStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	desc := "Foreign exchange rates"
	fx, err := store.CreateAssetClass(ctx, storage.AssetClass{AssetClassName: "FX", Description: &desc})
	require.NoError(t, err)
	require.NotZero(t, fx.AssetClassID)

	_, err = store.CreateAssetClass(ctx, storage.AssetClass{AssetClassName: "FX"})
	require.ErrorIs(t, err, storage.ErrDuplicate)

	fetched, err := store.GetAssetClass(ctx, fx.AssetClassID)
	require.NoError(t, err)
	require.Equal(t, "FX", fetched.AssetClassName)
	require.NotNil(t, fetched.Description)

	_, err = store.GetAssetClass(ctx, 9999)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.CreateAssetClass(ctx, storage.AssetClass{AssetClassName: "Commodity"})
	require.NoError(t, err)

	all, err := store.ListAssetClasses(ctx, storage.LookupFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := store.ListAssetClasses(ctx, storage.LookupFilter{NameLike: "fx"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "FX", filtered[0].AssetClassName)

	index, err := store.CreateProductType(ctx, storage.ProductType{ProductTypeName: "Index", IsDerived: true})
	require.NoError(t, err)
	require.True(t, index.IsDerived)

	_, err = store.CreateProductType(ctx, storage.ProductType{ProductTypeName: "Index"})
	require.ErrorIs(t, err, storage.ErrDuplicate)

	fetchedPT, err := store.GetProductType(ctx, index.ProductTypeID)
	require.NoError(t, err)
	require.Equal(t, "Index", fetchedPT.ProductTypeName)

	types, err := store.ListProductTypes(ctx, storage.LookupFilter{NameLike: "ind"})
	require.NoError(t, err)
	require.Len(t, types, 1)
}
