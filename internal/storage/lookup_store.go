package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const (
	insertAssetClassSQL = `INSERT INTO asset_class_lookup (
        asset_class_name,
        description
    ) VALUES ($1,$2)
    RETURNING asset_class_id, asset_class_name, description, created_at, updated_at;`

	getAssetClassSQL = `SELECT asset_class_id, asset_class_name, description, created_at, updated_at
    FROM asset_class_lookup
    WHERE asset_class_id = $1;`

	listAssetClassesSQL = `SELECT asset_class_id, asset_class_name, description, created_at, updated_at
    FROM asset_class_lookup
    WHERE ($1 = '' OR asset_class_name ILIKE '%' || $1 || '%')
    ORDER BY asset_class_id
    LIMIT $2 OFFSET $3;`

	insertProductTypeSQL = `INSERT INTO product_type_lookup (
        product_type_name,
        description,
        is_derived
    ) VALUES ($1,$2,$3)
    RETURNING product_type_id, product_type_name, description, is_derived, created_at, updated_at;`

	getProductTypeSQL = `SELECT product_type_id, product_type_name, description, is_derived, created_at, updated_at
    FROM product_type_lookup
    WHERE product_type_id = $1;`

	listProductTypesSQL = `SELECT product_type_id, product_type_name, description, is_derived, created_at, updated_at
    FROM product_type_lookup
    WHERE ($1 = '' OR product_type_name ILIKE '%' || $1 || '%')
    ORDER BY product_type_id
    LIMIT $2 OFFSET $3;`
)

// CreateAssetClass appends a new asset class. Duplicate names map to ErrDuplicate.
func (s *Store) CreateAssetClass(ctx context.Context, in AssetClass) (AssetClass, error) {
	pool, err := s.getPool()
	if err != nil {
		return AssetClass{}, err
	}

	out, scanErr := scanAssetClass(pool.QueryRow(ctx, insertAssetClassSQL, in.AssetClassName, in.Description))
	if scanErr != nil {
		return AssetClass{}, fmt.Errorf("insert asset class: %w", mapPgError(scanErr))
	}
	return out, nil
}

// GetAssetClass fetches one asset class by id.
func (s *Store) GetAssetClass(ctx context.Context, id int64) (AssetClass, error) {
	pool, err := s.getPool()
	if err != nil {
		return AssetClass{}, err
	}

	out, scanErr := scanAssetClass(pool.QueryRow(ctx, getAssetClassSQL, id))
	if scanErr != nil {
		if isNoRows(scanErr) {
			return AssetClass{}, ErrNotFound
		}
		return AssetClass{}, fmt.Errorf("get asset class: %w", scanErr)
	}
	return out, nil
}

// ListAssetClasses lists asset classes ordered by id.
func (s *Store) ListAssetClasses(ctx context.Context, filter LookupFilter) ([]AssetClass, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	page := filter.Page.Clamp()
	rows, queryErr := pool.Query(ctx, listAssetClassesSQL, filter.NameLike, page.Limit, page.Offset)
	if queryErr != nil {
		return nil, fmt.Errorf("list asset classes: %w", queryErr)
	}
	defer rows.Close()

	list := make([]AssetClass, 0)
	for rows.Next() {
		item, scanErr := scanAssetClass(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		list = append(list, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return list, nil
}

// CreateProductType appends a new product type. Duplicate names map to ErrDuplicate.
func (s *Store) CreateProductType(ctx context.Context, in ProductType) (ProductType, error) {
	pool, err := s.getPool()
	if err != nil {
		return ProductType{}, err
	}

	out, scanErr := scanProductType(pool.QueryRow(ctx, insertProductTypeSQL, in.ProductTypeName, in.Description, in.IsDerived))
	if scanErr != nil {
		return ProductType{}, fmt.Errorf("insert product type: %w", mapPgError(scanErr))
	}
	return out, nil
}

// GetProductType fetches one product type by id.
func (s *Store) GetProductType(ctx context.Context, id int64) (ProductType, error) {
	pool, err := s.getPool()
	if err != nil {
		return ProductType{}, err
	}

	out, scanErr := scanProductType(pool.QueryRow(ctx, getProductTypeSQL, id))
	if scanErr != nil {
		if isNoRows(scanErr) {
			return ProductType{}, ErrNotFound
		}
		return ProductType{}, fmt.Errorf("get product type: %w", scanErr)
	}
	return out, nil
}

// ListProductTypes lists product types ordered by id.
func (s *Store) ListProductTypes(ctx context.Context, filter LookupFilter) ([]ProductType, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	page := filter.Page.Clamp()
	rows, queryErr := pool.Query(ctx, listProductTypesSQL, filter.NameLike, page.Limit, page.Offset)
	if queryErr != nil {
		return nil, fmt.Errorf("list product types: %w", queryErr)
	}
	defer rows.Close()

	list := make([]ProductType, 0)
	for rows.Next() {
		item, scanErr := scanProductType(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		list = append(list, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return list, nil
}

func scanAssetClass(row pgx.Row) (AssetClass, error) {
	var out AssetClass
	if err := row.Scan(
		&out.AssetClassID,
		&out.AssetClassName,
		&out.Description,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return AssetClass{}, err
	}
	return out, nil
}

func scanProductType(row pgx.Row) (ProductType, error) {
	var out ProductType
	if err := row.Scan(
		&out.ProductTypeID,
		&out.ProductTypeName,
		&out.Description,
		&out.IsDerived,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return ProductType{}, err
	}
	return out, nil
}
