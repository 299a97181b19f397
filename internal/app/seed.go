package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"findata-api/internal/storage"
)

type seedLookup struct {
	name        string
	description string
	isDerived   bool
}

var seedAssetClasses = []seedLookup{
	{name: "Commodity", description: "Physical commodities and futures"},
	{name: "Credit", description: "Credit instruments and spreads"},
	{name: "Equity", description: "Equity indices and single names"},
	{name: "FX", description: "Foreign exchange rates"},
	{name: "Rates", description: "Interest rate products"},
}

var seedProductTypes = []seedLookup{
	{name: "Spot", description: "Spot market prices"},
	{name: "Forward", description: "Forward prices"},
	{name: "Index", description: "Composite index levels", isDerived: true},
	{name: "Spread", description: "Differences between series", isDerived: true},
}

// Seed loads the reference lookups and a small demo data set. Existing
// rows are left untouched, so running it repeatedly is harmless.
func (a *App) Seed(ctx context.Context) error {
	b, closeBackends, err := a.openBackends(ctx)
	if err != nil {
		return err
	}
	defer closeBackends()

	assetClasses := make(map[string]int64, len(seedAssetClasses))
	for _, sl := range seedAssetClasses {
		desc := sl.description
		created, err := b.stores.Lookups.CreateAssetClass(ctx, storage.AssetClass{
			AssetClassName: sl.name,
			Description:    &desc,
		})
		if errors.Is(err, storage.ErrDuplicate) {
			a.Logger.Debug().Str("name", sl.name).Msg("asset class already present")
			existing, err := a.findAssetClass(ctx, b.stores.Lookups, sl.name)
			if err != nil {
				return err
			}
			assetClasses[sl.name] = existing
			continue
		}
		if err != nil {
			return err
		}
		assetClasses[sl.name] = created.AssetClassID
	}

	productTypes := make(map[string]int64, len(seedProductTypes))
	for _, sl := range seedProductTypes {
		desc := sl.description
		created, err := b.stores.Lookups.CreateProductType(ctx, storage.ProductType{
			ProductTypeName: sl.name,
			Description:     &desc,
			IsDerived:       sl.isDerived,
		})
		if errors.Is(err, storage.ErrDuplicate) {
			a.Logger.Debug().Str("name", sl.name).Msg("product type already present")
			existing, err := a.findProductType(ctx, b.stores.Lookups, sl.name)
			if err != nil {
				return err
			}
			productTypes[sl.name] = existing
			continue
		}
		if err != nil {
			return err
		}
		productTypes[sl.name] = created.ProductTypeID
	}

	if err := a.seedDemoSeries(ctx, b, assetClasses, productTypes); err != nil {
		return err
	}

	a.Logger.Info().
		Int("asset_classes", len(assetClasses)).
		Int("product_types", len(productTypes)).
		Msg("seed complete")
	return nil
}

func (a *App) findAssetClass(ctx context.Context, lookups storage.LookupStore, name string) (int64, error) {
	items, err := lookups.ListAssetClasses(ctx, storage.LookupFilter{NameLike: name})
	if err != nil {
		return 0, err
	}
	for _, ac := range items {
		if ac.AssetClassName == name {
			return ac.AssetClassID, nil
		}
	}
	return 0, storage.ErrNotFound
}

func (a *App) findProductType(ctx context.Context, lookups storage.LookupStore, name string) (int64, error) {
	items, err := lookups.ListProductTypes(ctx, storage.LookupFilter{NameLike: name})
	if err != nil {
		return 0, err
	}
	for _, pt := range items {
		if pt.ProductTypeName == name {
			return pt.ProductTypeID, nil
		}
	}
	return 0, storage.ErrNotFound
}

func (a *App) seedDemoSeries(ctx context.Context, b *backends, assetClasses, productTypes map[string]int64) error {
	ticker := "XAUUSD"
	name := "Gold Spot USD"
	acID := assetClasses["Commodity"]
	ptID := productTypes["Spot"]

	existing, err := b.stores.Series.ListSeries(ctx, storage.SeriesFilter{TickerLike: ticker})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		a.Logger.Debug().Str("ticker", ticker).Msg("demo series already present")
		return nil
	}

	series, err := b.stores.Series.CreateSeries(ctx, storage.Series{
		SeriesName:    name,
		Ticker:        &ticker,
		AssetClassID:  &acID,
		ProductTypeID: &ptID,
		IsActive:      true,
	})
	if err != nil {
		return err
	}

	base := decimal.NewFromInt(2400)
	day := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < 10; i++ {
		value := base.Add(decimal.NewFromInt(int64(i * 3)))
		_, err := b.stores.Observations.UpsertObservation(ctx, storage.Observation{
			SeriesID:   series.SeriesID,
			ObservedAt: day.AddDate(0, 0, -i),
			Value:      value,
		})
		if err != nil {
			return err
		}
	}

	a.Logger.Info().Int64("series_id", series.SeriesID).Str("ticker", ticker).Msg("seeded demo series")
	return nil
}
