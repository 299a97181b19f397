package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"findata-api/internal/storage"
)

// DependencyStore is an in-memory implementation of storage.DependencyStore.
// A SeriesStore is consulted so unknown series ids fail the same way the
// database foreign keys would.
type DependencyStore struct {
	mu                sync.RWMutex
	nextDependencyID  int64
	nextCalculationID int64
	dependencies      map[int64]*storage.Dependency
	calculations      map[int64]*storage.Calculation
	series            *SeriesStore
}

// NewDependencyStore creates a new in-memory dependency store.
func NewDependencyStore(series *SeriesStore) *DependencyStore {
	return &DependencyStore{
		nextDependencyID:  1,
		nextCalculationID: 1,
		dependencies:      make(map[int64]*storage.Dependency),
		calculations:      make(map[int64]*storage.Calculation),
		series:            series,
	}
}

var _ storage.DependencyStore = (*DependencyStore)(nil)

// CreateDependency records one edge; unknown series ids map to ErrForeignKey.
func (s *DependencyStore) CreateDependency(ctx context.Context, in storage.Dependency) (storage.Dependency, error) {
	if err := s.checkSeries(ctx, in.ParentSeriesID, in.ChildSeriesID); err != nil {
		return storage.Dependency{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in.DependencyID = s.nextDependencyID
	in.CreatedAt = time.Now().UTC()
	s.nextDependencyID++

	stored := in
	s.dependencies[in.DependencyID] = &stored
	return in, nil
}

// ListDependencies lists dependency edges ordered by id.
func (s *DependencyStore) ListDependencies(_ context.Context, filter storage.DependencyFilter) ([]storage.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storage.Dependency, 0)
	for _, stored := range s.dependencies {
		if !filter.IncludeInactive && !stored.IsActive {
			continue
		}
		if filter.ParentSeriesID != nil && stored.ParentSeriesID != *filter.ParentSeriesID {
			continue
		}
		if filter.ChildSeriesID != nil && stored.ChildSeriesID != *filter.ChildSeriesID {
			continue
		}
		if filter.DependencyType != "" && (stored.DependencyType == nil || *stored.DependencyType != filter.DependencyType) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DependencyID < matched[j].DependencyID })
	return paginate(matched, filter.Page), nil
}

// CreateCalculation appends one calculation log entry.
func (s *DependencyStore) CreateCalculation(ctx context.Context, in storage.Calculation) (storage.Calculation, error) {
	if err := s.checkSeries(ctx, in.DerivedSeriesID); err != nil {
		return storage.Calculation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in.CalculationID = s.nextCalculationID
	in.CreatedAt = time.Now().UTC()
	s.nextCalculationID++

	stored := in
	s.calculations[in.CalculationID] = &stored
	return in, nil
}

// GetCalculation fetches one calculation log entry by id.
func (s *DependencyStore) GetCalculation(_ context.Context, calculationID int64) (storage.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.calculations[calculationID]
	if !ok {
		return storage.Calculation{}, storage.ErrNotFound
	}
	return *stored, nil
}

// ListCalculations lists calculation log entries ordered by id.
func (s *DependencyStore) ListCalculations(_ context.Context, filter storage.CalculationFilter) ([]storage.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storage.Calculation, 0)
	for _, stored := range s.calculations {
		if filter.DerivedSeriesID != nil && stored.DerivedSeriesID != *filter.DerivedSeriesID {
			continue
		}
		if filter.Status != "" && (stored.Status == nil || *stored.Status != filter.Status) {
			continue
		}
		if filter.Method != "" && (stored.CalculationMethod == nil || *stored.CalculationMethod != filter.Method) {
			continue
		}
		if filter.From != nil && (stored.CalculatedAt == nil || stored.CalculatedAt.Before(*filter.From)) {
			continue
		}
		if filter.To != nil && (stored.CalculatedAt == nil || stored.CalculatedAt.After(*filter.To)) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CalculationID < matched[j].CalculationID })
	return paginate(matched, filter.Page), nil
}

func (s *DependencyStore) checkSeries(ctx context.Context, ids ...int64) error {
	if s.series == nil {
		return nil
	}
	for _, id := range ids {
		if _, err := s.series.GetSeries(ctx, id); err != nil {
			return storage.ErrForeignKey
		}
	}
	return nil
}
