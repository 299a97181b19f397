package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Series carries the metadata describing one financial time series.
type Series struct {
	SeriesID          int64
	SeriesName        string
	Ticker            *string
	AssetClassID      *int64
	ProductTypeID     *int64
	IsDerived         bool
	CalculationMethod *string
	VersionNumber     int
	IsActive          bool
	ValidFrom         *time.Time
	ValidTo           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AssetClass is one row of the append-only asset class lookup.
type AssetClass struct {
	AssetClassID   int64
	AssetClassName string
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductType is one row of the append-only product type lookup.
type ProductType struct {
	ProductTypeID   int64
	ProductTypeName string
	Description     *string
	IsDerived       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Observation is one time-series data point, keyed by (series, date).
type Observation struct {
	SeriesID   int64
	ObservedAt time.Time
	Value      decimal.Decimal
	IsDerived  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Dependency records that a derived (parent) series depends on a child
// series. Passive bookkeeping: nothing resolves or executes the graph.
type Dependency struct {
	DependencyID   int64
	ParentSeriesID int64
	ChildSeriesID  int64
	DependencyType *string
	Weight         *decimal.Decimal
	Formula        *string
	IsActive       bool
	CreatedAt      time.Time
}

// Calculation is one append-only entry of the calculation log.
type Calculation struct {
	CalculationID     int64
	DerivedSeriesID   int64
	CalculationMethod *string
	InputSeriesIDs    []int64
	Parameters        json.RawMessage
	Status            *string
	ErrorMessage      *string
	ExecutionTimeMS   *int64
	CalculatedAt      *time.Time
	CalculatedBy      *string
	CreatedAt         time.Time
}

// Page bounds list results. Limit zero means the store default.
type Page struct {
	Limit  int
	Offset int
}

// SeriesFilter narrows meta series listings. Inactive rows are excluded
// unless IncludeInactive is set (soft-deleted rows stay fetchable by id).
type SeriesFilter struct {
	IsDerived       *bool
	AssetClassID    *int64
	ProductTypeID   *int64
	NameLike        string
	TickerLike      string
	IncludeInactive bool
	Page            Page
}

// ObservationFilter narrows value data listings.
type ObservationFilter struct {
	SeriesIDs []int64
	From      *time.Time
	To        *time.Time
	IsDerived *bool
	Page      Page
}

// DependencyFilter narrows dependency edge listings.
type DependencyFilter struct {
	ParentSeriesID  *int64
	ChildSeriesID   *int64
	DependencyType  string
	IncludeInactive bool
	Page            Page
}

// CalculationFilter narrows calculation log listings.
type CalculationFilter struct {
	DerivedSeriesID *int64
	Status          string
	Method          string
	From            *time.Time
	To              *time.Time
	Page            Page
}

// LookupFilter narrows lookup table listings.
type LookupFilter struct {
	NameLike string
	Page     Page
}

const (
	// DefaultPageLimit applies when a list request names no limit.
	DefaultPageLimit = 100
	// MaxPageLimit caps any list request.
	MaxPageLimit = 1000
)

// Clamp normalises a page to the store limits.
func (p Page) Clamp() Page {
	if p.Limit <= 0 || p.Limit > MaxPageLimit {
		if p.Limit > MaxPageLimit {
			p.Limit = MaxPageLimit
		} else {
			p.Limit = DefaultPageLimit
		}
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
