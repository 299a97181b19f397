package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"findata-api/internal/storage"
)

// SeriesStore is an in-memory implementation of storage.SeriesStore.
type SeriesStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*storage.Series
}

// NewSeriesStore creates a new in-memory series store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{nextID: 1, byID: make(map[int64]*storage.Series)}
}

var _ storage.SeriesStore = (*SeriesStore)(nil)

// CreateSeries inserts a new series and assigns its id.
func (s *SeriesStore) CreateSeries(_ context.Context, in storage.Series) (storage.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	in.SeriesID = s.nextID
	in.VersionNumber = 1
	in.CreatedAt = now
	in.UpdatedAt = now
	s.nextID++

	stored := in
	s.byID[in.SeriesID] = &stored
	return in, nil
}

// GetSeries fetches one series by id regardless of its active flag.
func (s *SeriesStore) GetSeries(_ context.Context, seriesID int64) (storage.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byID[seriesID]
	if !ok {
		return storage.Series{}, storage.ErrNotFound
	}
	return *stored, nil
}

// ListSeries lists series matching the filter ordered by id.
func (s *SeriesStore) ListSeries(_ context.Context, filter storage.SeriesFilter) ([]storage.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storage.Series, 0)
	for _, stored := range s.byID {
		if !matchSeries(*stored, filter) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SeriesID < matched[j].SeriesID })

	return paginate(matched, filter.Page), nil
}

// ListSeriesByIDs fetches series rows for a set of ids, active or not.
func (s *SeriesStore) ListSeriesByIDs(_ context.Context, ids []int64) ([]storage.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storage.Series, 0, len(ids))
	for _, id := range ids {
		if stored, ok := s.byID[id]; ok {
			matched = append(matched, *stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SeriesID < matched[j].SeriesID })
	return matched, nil
}

// UpdateSeries replaces the mutable fields of a series and bumps its version.
func (s *SeriesStore) UpdateSeries(_ context.Context, seriesID int64, in storage.Series) (storage.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[seriesID]
	if !ok {
		return storage.Series{}, storage.ErrNotFound
	}

	in.SeriesID = seriesID
	in.VersionNumber = stored.VersionNumber + 1
	in.CreatedAt = stored.CreatedAt
	in.UpdatedAt = time.Now().UTC()

	updated := in
	s.byID[seriesID] = &updated
	return in, nil
}

// SoftDeleteSeries flips the active flag; the row is never removed.
func (s *SeriesStore) SoftDeleteSeries(_ context.Context, seriesID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[seriesID]
	if !ok {
		return storage.ErrNotFound
	}
	stored.IsActive = false
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func matchSeries(s storage.Series, filter storage.SeriesFilter) bool {
	if !filter.IncludeInactive && !s.IsActive {
		return false
	}
	if filter.IsDerived != nil && s.IsDerived != *filter.IsDerived {
		return false
	}
	if filter.AssetClassID != nil && (s.AssetClassID == nil || *s.AssetClassID != *filter.AssetClassID) {
		return false
	}
	if filter.ProductTypeID != nil && (s.ProductTypeID == nil || *s.ProductTypeID != *filter.ProductTypeID) {
		return false
	}
	if filter.NameLike != "" && !containsFold(s.SeriesName, filter.NameLike) {
		return false
	}
	if filter.TickerLike != "" && (s.Ticker == nil || !containsFold(*s.Ticker, filter.TickerLike)) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](list []T, page storage.Page) []T {
	page = page.Clamp()
	if page.Offset >= len(list) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Offset:end]
}
