package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"findata-api/internal/storage"
)

type seriesPayload struct {
	SeriesName        string     `json:"series_name"`
	Ticker            *string    `json:"ticker"`
	AssetClassID      *int64     `json:"asset_class_id"`
	ProductTypeID     *int64     `json:"product_type_id"`
	IsDerived         bool       `json:"is_derived"`
	CalculationMethod *string    `json:"calculation_method"`
	IsActive          *bool      `json:"is_active"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidTo           *time.Time `json:"valid_to"`
}

func (p seriesPayload) validate() error {
	if strings.TrimSpace(p.SeriesName) == "" {
		return fmt.Errorf("series_name is required")
	}
	if p.IsDerived && (p.CalculationMethod == nil || strings.TrimSpace(*p.CalculationMethod) == "") {
		return fmt.Errorf("calculation_method is required for derived series")
	}
	if p.ValidFrom != nil && p.ValidTo != nil && p.ValidTo.Before(*p.ValidFrom) {
		return fmt.Errorf("valid_to must not precede valid_from")
	}
	return nil
}

func (p seriesPayload) toSeries() storage.Series {
	s := storage.Series{
		SeriesName:        strings.TrimSpace(p.SeriesName),
		Ticker:            p.Ticker,
		AssetClassID:      p.AssetClassID,
		ProductTypeID:     p.ProductTypeID,
		IsDerived:         p.IsDerived,
		CalculationMethod: p.CalculationMethod,
		IsActive:          true,
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	s.ValidFrom = p.ValidFrom
	s.ValidTo = p.ValidTo
	return s
}

type seriesResponse struct {
	SeriesID          int64      `json:"series_id"`
	SeriesName        string     `json:"series_name"`
	Ticker            *string    `json:"ticker"`
	AssetClassID      *int64     `json:"asset_class_id"`
	ProductTypeID     *int64     `json:"product_type_id"`
	IsDerived         bool       `json:"is_derived"`
	CalculationMethod *string    `json:"calculation_method"`
	VersionNumber     int        `json:"version_number"`
	IsActive          bool       `json:"is_active"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidTo           *time.Time `json:"valid_to"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func newSeriesResponse(s storage.Series) seriesResponse {
	return seriesResponse{
		SeriesID:          s.SeriesID,
		SeriesName:        s.SeriesName,
		Ticker:            s.Ticker,
		AssetClassID:      s.AssetClassID,
		ProductTypeID:     s.ProductTypeID,
		IsDerived:         s.IsDerived,
		CalculationMethod: s.CalculationMethod,
		VersionNumber:     s.VersionNumber,
		IsActive:          s.IsActive,
		ValidFrom:         s.ValidFrom,
		ValidTo:           s.ValidTo,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func newSeriesResponses(items []storage.Series) []seriesResponse {
	out := make([]seriesResponse, 0, len(items))
	for _, s := range items {
		out = append(out, newSeriesResponse(s))
	}
	return out
}

type observationPayload struct {
	SeriesID        int64           `json:"series_id"`
	ObservationDate string          `json:"observation_date"`
	Value           decimal.Decimal `json:"value"`
	IsDerived       bool            `json:"is_derived"`
}

func (p observationPayload) validate() error {
	if p.SeriesID <= 0 {
		return fmt.Errorf("series_id is required")
	}
	if _, err := time.Parse(dateLayout, p.ObservationDate); err != nil {
		return fmt.Errorf("invalid observation_date %q, expected YYYY-MM-DD", p.ObservationDate)
	}
	return nil
}

func (p observationPayload) toObservation() storage.Observation {
	observedAt, _ := time.Parse(dateLayout, p.ObservationDate)
	return storage.Observation{
		SeriesID:   p.SeriesID,
		ObservedAt: observedAt.UTC(),
		Value:      p.Value,
		IsDerived:  p.IsDerived,
	}
}

type observationResponse struct {
	SeriesID        int64           `json:"series_id"`
	ObservationDate string          `json:"observation_date"`
	Value           decimal.Decimal `json:"value"`
	IsDerived       bool            `json:"is_derived"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func newObservationResponse(o storage.Observation) observationResponse {
	return observationResponse{
		SeriesID:        o.SeriesID,
		ObservationDate: o.ObservedAt.UTC().Format(dateLayout),
		Value:           o.Value,
		IsDerived:       o.IsDerived,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// seriesValuesResponse pairs a series with its observations in combined
// value data listings.
type seriesValuesResponse struct {
	Metadata  seriesResponse        `json:"metadata"`
	ValueData []observationResponse `json:"value_data"`
}

type assetClassPayload struct {
	AssetClassName string  `json:"asset_class_name"`
	Description    *string `json:"description"`
}

func (p assetClassPayload) validate() error {
	if strings.TrimSpace(p.AssetClassName) == "" {
		return fmt.Errorf("asset_class_name is required")
	}
	return nil
}

type assetClassResponse struct {
	AssetClassID   int64     `json:"asset_class_id"`
	AssetClassName string    `json:"asset_class_name"`
	Description    *string   `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newAssetClassResponse(ac storage.AssetClass) assetClassResponse {
	return assetClassResponse{
		AssetClassID:   ac.AssetClassID,
		AssetClassName: ac.AssetClassName,
		Description:    ac.Description,
		CreatedAt:      ac.CreatedAt,
		UpdatedAt:      ac.UpdatedAt,
	}
}

type productTypePayload struct {
	ProductTypeName string  `json:"product_type_name"`
	Description     *string `json:"description"`
	IsDerived       bool    `json:"is_derived"`
}

func (p productTypePayload) validate() error {
	if strings.TrimSpace(p.ProductTypeName) == "" {
		return fmt.Errorf("product_type_name is required")
	}
	return nil
}

type productTypeResponse struct {
	ProductTypeID   int64     `json:"product_type_id"`
	ProductTypeName string    `json:"product_type_name"`
	Description     *string   `json:"description"`
	IsDerived       bool      `json:"is_derived"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newProductTypeResponse(pt storage.ProductType) productTypeResponse {
	return productTypeResponse{
		ProductTypeID:   pt.ProductTypeID,
		ProductTypeName: pt.ProductTypeName,
		Description:     pt.Description,
		IsDerived:       pt.IsDerived,
		CreatedAt:       pt.CreatedAt,
		UpdatedAt:       pt.UpdatedAt,
	}
}

type dependencyPayload struct {
	ParentSeriesID int64            `json:"parent_series_id"`
	ChildSeriesID  int64            `json:"child_series_id"`
	DependencyType *string          `json:"dependency_type"`
	Weight         *decimal.Decimal `json:"weight"`
	Formula        *string          `json:"formula"`
	IsActive       *bool            `json:"is_active"`
}

func (p dependencyPayload) validate() error {
	if p.ParentSeriesID <= 0 {
		return fmt.Errorf("parent_series_id is required")
	}
	if p.ChildSeriesID <= 0 {
		return fmt.Errorf("child_series_id is required")
	}
	if p.ParentSeriesID == p.ChildSeriesID {
		return fmt.Errorf("a series cannot depend on itself")
	}
	return nil
}

func (p dependencyPayload) toDependency() storage.Dependency {
	d := storage.Dependency{
		ParentSeriesID: p.ParentSeriesID,
		ChildSeriesID:  p.ChildSeriesID,
		DependencyType: p.DependencyType,
		Weight:         p.Weight,
		Formula:        p.Formula,
		IsActive:       true,
	}
	if p.IsActive != nil {
		d.IsActive = *p.IsActive
	}
	return d
}

type dependencyResponse struct {
	DependencyID   int64            `json:"dependency_id"`
	ParentSeriesID int64            `json:"parent_series_id"`
	ChildSeriesID  int64            `json:"child_series_id"`
	DependencyType *string          `json:"dependency_type"`
	Weight         *decimal.Decimal `json:"weight"`
	Formula        *string          `json:"formula"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
}

func newDependencyResponse(d storage.Dependency) dependencyResponse {
	return dependencyResponse{
		DependencyID:   d.DependencyID,
		ParentSeriesID: d.ParentSeriesID,
		ChildSeriesID:  d.ChildSeriesID,
		DependencyType: d.DependencyType,
		Weight:         d.Weight,
		Formula:        d.Formula,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
	}
}

type calculationPayload struct {
	DerivedSeriesID   int64           `json:"derived_series_id"`
	CalculationMethod *string         `json:"calculation_method"`
	InputSeriesIDs    []int64         `json:"input_series_ids"`
	Parameters        json.RawMessage `json:"calculation_parameters"`
	Status            *string         `json:"status"`
	ErrorMessage      *string         `json:"error_message"`
	ExecutionTimeMS   *int64          `json:"execution_time_ms"`
	CalculatedAt      *time.Time      `json:"calculated_at"`
	CalculatedBy      *string         `json:"calculated_by"`
}

func (p calculationPayload) validate() error {
	if p.DerivedSeriesID <= 0 {
		return fmt.Errorf("derived_series_id is required")
	}
	if len(p.Parameters) > 0 && !json.Valid(p.Parameters) {
		return fmt.Errorf("calculation_parameters must be valid JSON")
	}
	return nil
}

func (p calculationPayload) toCalculation() storage.Calculation {
	return storage.Calculation{
		DerivedSeriesID:   p.DerivedSeriesID,
		CalculationMethod: p.CalculationMethod,
		InputSeriesIDs:    p.InputSeriesIDs,
		Parameters:        p.Parameters,
		Status:            p.Status,
		ErrorMessage:      p.ErrorMessage,
		ExecutionTimeMS:   p.ExecutionTimeMS,
		CalculatedAt:      p.CalculatedAt,
		CalculatedBy:      p.CalculatedBy,
	}
}

type calculationResponse struct {
	CalculationID     int64           `json:"calculation_id"`
	DerivedSeriesID   int64           `json:"derived_series_id"`
	CalculationMethod *string         `json:"calculation_method"`
	InputSeriesIDs    []int64         `json:"input_series_ids"`
	Parameters        json.RawMessage `json:"calculation_parameters"`
	Status            *string         `json:"status"`
	ErrorMessage      *string         `json:"error_message"`
	ExecutionTimeMS   *int64          `json:"execution_time_ms"`
	CalculatedAt      *time.Time      `json:"calculated_at"`
	CalculatedBy      *string         `json:"calculated_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

func newCalculationResponse(c storage.Calculation) calculationResponse {
	return calculationResponse{
		CalculationID:     c.CalculationID,
		DerivedSeriesID:   c.DerivedSeriesID,
		CalculationMethod: c.CalculationMethod,
		InputSeriesIDs:    c.InputSeriesIDs,
		Parameters:        c.Parameters,
		Status:            c.Status,
		ErrorMessage:      c.ErrorMessage,
		ExecutionTimeMS:   c.ExecutionTimeMS,
		CalculatedAt:      c.CalculatedAt,
		CalculatedBy:      c.CalculatedBy,
		CreatedAt:         c.CreatedAt,
	}
}
