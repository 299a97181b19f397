package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"findata-api/internal/storage"
)

type observationKey struct {
	seriesID int64
	date     string
}

// ObservationStore is an in-memory implementation of storage.ObservationStore.
type ObservationStore struct {
	mu    sync.RWMutex
	byKey map[observationKey]*storage.Observation
}

// NewObservationStore creates a new in-memory observation store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{byKey: make(map[observationKey]*storage.Observation)}
}

var _ storage.ObservationStore = (*ObservationStore)(nil)

// UpsertObservation persists or overwrites the observation keyed by (series, date).
func (s *ObservationStore) UpsertObservation(_ context.Context, in storage.Observation) (storage.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := keyFor(in.SeriesID, in.ObservedAt)
	if existing, ok := s.byKey[key]; ok {
		in.CreatedAt = existing.CreatedAt
	} else {
		in.CreatedAt = now
	}
	in.UpdatedAt = now

	stored := in
	s.byKey[key] = &stored
	return in, nil
}

// GetObservation fetches one observation by its composite key.
func (s *ObservationStore) GetObservation(_ context.Context, seriesID int64, observedAt time.Time) (storage.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byKey[keyFor(seriesID, observedAt)]
	if !ok {
		return storage.Observation{}, storage.ErrNotFound
	}
	return *stored, nil
}

// ListObservations lists observations ordered by (series, date).
func (s *ObservationStore) ListObservations(_ context.Context, filter storage.ObservationFilter) ([]storage.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]bool, len(filter.SeriesIDs))
	for _, id := range filter.SeriesIDs {
		wanted[id] = true
	}

	matched := make([]storage.Observation, 0)
	for _, stored := range s.byKey {
		if len(wanted) > 0 && !wanted[stored.SeriesID] {
			continue
		}
		if filter.From != nil && stored.ObservedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && stored.ObservedAt.After(*filter.To) {
			continue
		}
		if filter.IsDerived != nil && stored.IsDerived != *filter.IsDerived {
			continue
		}
		matched = append(matched, *stored)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SeriesID != matched[j].SeriesID {
			return matched[i].SeriesID < matched[j].SeriesID
		}
		return matched[i].ObservedAt.Before(matched[j].ObservedAt)
	})

	return paginate(matched, filter.Page), nil
}

func keyFor(seriesID int64, observedAt time.Time) observationKey {
	return observationKey{seriesID: seriesID, date: observedAt.UTC().Format("2006-01-02")}
}
