package storage

import (
	"context"
	"time"
)

// SeriesStore defines operations for meta series persistence.
type SeriesStore interface {
	CreateSeries(ctx context.Context, s Series) (Series, error)
	GetSeries(ctx context.Context, seriesID int64) (Series, error)
	ListSeries(ctx context.Context, filter SeriesFilter) ([]Series, error)
	ListSeriesByIDs(ctx context.Context, ids []int64) ([]Series, error)
	UpdateSeries(ctx context.Context, seriesID int64, s Series) (Series, error)
	SoftDeleteSeries(ctx context.Context, seriesID int64) error
}

// LookupStore defines operations for the reference tables.
type LookupStore interface {
	CreateAssetClass(ctx context.Context, ac AssetClass) (AssetClass, error)
	GetAssetClass(ctx context.Context, id int64) (AssetClass, error)
	ListAssetClasses(ctx context.Context, filter LookupFilter) ([]AssetClass, error)

	CreateProductType(ctx context.Context, pt ProductType) (ProductType, error)
	GetProductType(ctx context.Context, id int64) (ProductType, error)
	ListProductTypes(ctx context.Context, filter LookupFilter) ([]ProductType, error)
}

// ObservationStore defines operations for time-series observations.
// Backed by the TimescaleDB hypertable, or by ClickHouse when configured.
type ObservationStore interface {
	UpsertObservation(ctx context.Context, o Observation) (Observation, error)
	GetObservation(ctx context.Context, seriesID int64, observedAt time.Time) (Observation, error)
	ListObservations(ctx context.Context, filter ObservationFilter) ([]Observation, error)
}

// DependencyStore defines operations for the dependency graph and
// calculation log bookkeeping tables.
type DependencyStore interface {
	CreateDependency(ctx context.Context, d Dependency) (Dependency, error)
	ListDependencies(ctx context.Context, filter DependencyFilter) ([]Dependency, error)

	CreateCalculation(ctx context.Context, c Calculation) (Calculation, error)
	GetCalculation(ctx context.Context, calculationID int64) (Calculation, error)
	ListCalculations(ctx context.Context, filter CalculationFilter) ([]Calculation, error)
}
