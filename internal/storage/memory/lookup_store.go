package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"findata-api/internal/storage"
)

// LookupStore is an in-memory implementation of storage.LookupStore.
type LookupStore struct {
	mu                sync.RWMutex
	nextAssetClassID  int64
	nextProductTypeID int64
	assetClasses      map[int64]*storage.AssetClass
	productTypes      map[int64]*storage.ProductType
}

// NewLookupStore creates a new in-memory lookup store.
func NewLookupStore() *LookupStore {
	return &LookupStore{
		nextAssetClassID:  1,
		nextProductTypeID: 1,
		assetClasses:      make(map[int64]*storage.AssetClass),
		productTypes:      make(map[int64]*storage.ProductType),
	}
}

var _ storage.LookupStore = (*LookupStore)(nil)

// CreateAssetClass appends a new asset class. Duplicate names map to ErrDuplicate.
func (s *LookupStore) CreateAssetClass(_ context.Context, in storage.AssetClass) (storage.AssetClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assetClasses {
		if existing.AssetClassName == in.AssetClassName {
			return storage.AssetClass{}, storage.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	in.AssetClassID = s.nextAssetClassID
	in.CreatedAt = now
	in.UpdatedAt = now
	s.nextAssetClassID++

	stored := in
	s.assetClasses[in.AssetClassID] = &stored
	return in, nil
}

// GetAssetClass fetches one asset class by id.
func (s *LookupStore) GetAssetClass(_ context.Context, id int64) (storage.AssetClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.assetClasses[id]
	if !ok {
		return storage.AssetClass{}, storage.ErrNotFound
	}
	return *stored, nil
}

// ListAssetClasses lists asset classes ordered by id.
func (s *LookupStore) ListAssetClasses(_ context.Context, filter storage.LookupFilter) ([]storage.AssetClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storage.AssetClass, 0)
	for _, stored := range s.assetClasses {
		if filter.NameLike != "" && !containsFold(stored.AssetClassName, filter.NameLike) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].AssetClassID < matched[j].AssetClassID })
	return paginate(matched, filter.Page), nil
}

// CreateProductType appends a new product type. Duplicate names map to ErrDuplicate.
func (s *LookupStore) CreateProductType(_ context.Context, in storage.ProductType) (storage.ProductType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.productTypes {
		if existing.ProductTypeName == in.ProductTypeName {
			return storage.ProductType{}, storage.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	in.ProductTypeID = s.nextProductTypeID
	in.CreatedAt = now
	in.UpdatedAt = now
	s.nextProductTypeID++

	stored := in
	s.productTypes[in.ProductTypeID] = &stored
	return in, nil
}

// GetProductType fetches one product type by id.
func (s *LookupStore) GetProductType(_ context.Context, id int64) (storage.ProductType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.productTypes[id]
	if !ok {
		return storage.ProductType{}, storage.ErrNotFound
	}
	return *stored, nil
}

// ListProductTypes lists product types ordered by id.
func (s *LookupStore) ListProductTypes(_ context.Context, filter storage.LookupFilter) ([]storage.ProductType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storage.ProductType, 0)
	for _, stored := range s.productTypes {
		if filter.NameLike != "" && !containsFold(stored.ProductTypeName, filter.NameLike) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ProductTypeID < matched[j].ProductTypeID })
	return paginate(matched, filter.Page), nil
}
