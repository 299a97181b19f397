package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const (
	seriesColumns = `series_id,
        series_name,
        ticker,
        asset_class_id,
        product_type_id,
        is_derived,
        calculation_method,
        version_number,
        is_active,
        valid_from,
        valid_to,
        created_at,
        updated_at`

	insertSeriesSQL = `INSERT INTO meta_series (
        series_name,
        ticker,
        asset_class_id,
        product_type_id,
        is_derived,
        calculation_method,
        is_active,
        valid_from,
        valid_to
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9
    )
    RETURNING ` + seriesColumns + `;`

	getSeriesSQL = `SELECT ` + seriesColumns + `
    FROM meta_series
    WHERE series_id = $1;`

	updateSeriesSQL = `UPDATE meta_series
    SET series_name        = $2,
        ticker             = $3,
        asset_class_id     = $4,
        product_type_id    = $5,
        is_derived         = $6,
        calculation_method = $7,
        is_active          = $8,
        valid_from         = $9,
        valid_to           = $10,
        version_number     = version_number + 1,
        updated_at         = now()
    WHERE series_id = $1
    RETURNING ` + seriesColumns + `;`

	softDeleteSeriesSQL = `UPDATE meta_series
    SET is_active = FALSE, updated_at = now()
    WHERE series_id = $1;`
)

// CreateSeries inserts a new meta series row and returns the stored row.
func (s *Store) CreateSeries(ctx context.Context, in Series) (Series, error) {
	pool, err := s.getPool()
	if err != nil {
		return Series{}, err
	}

	row := pool.QueryRow(ctx, insertSeriesSQL,
		in.SeriesName,
		in.Ticker,
		in.AssetClassID,
		in.ProductTypeID,
		in.IsDerived,
		in.CalculationMethod,
		in.IsActive,
		in.ValidFrom,
		in.ValidTo,
	)

	out, scanErr := scanSeries(row)
	if scanErr != nil {
		return Series{}, fmt.Errorf("insert meta series: %w", mapPgError(scanErr))
	}
	return out, nil
}

// GetSeries fetches one series by id regardless of its active flag.
func (s *Store) GetSeries(ctx context.Context, seriesID int64) (Series, error) {
	pool, err := s.getPool()
	if err != nil {
		return Series{}, err
	}

	out, scanErr := scanSeries(pool.QueryRow(ctx, getSeriesSQL, seriesID))
	if scanErr != nil {
		if isNoRows(scanErr) {
			return Series{}, ErrNotFound
		}
		return Series{}, fmt.Errorf("get meta series: %w", scanErr)
	}
	return out, nil
}

// ListSeries lists series matching the filter ordered by id.
func (s *Store) ListSeries(ctx context.Context, filter SeriesFilter) ([]Series, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	if !filter.IncludeInactive {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.IsDerived != nil {
		args = append(args, *filter.IsDerived)
		conds = append(conds, fmt.Sprintf("is_derived = $%d", len(args)))
	}
	if filter.AssetClassID != nil {
		args = append(args, *filter.AssetClassID)
		conds = append(conds, fmt.Sprintf("asset_class_id = $%d", len(args)))
	}
	if filter.ProductTypeID != nil {
		args = append(args, *filter.ProductTypeID)
		conds = append(conds, fmt.Sprintf("product_type_id = $%d", len(args)))
	}
	if filter.NameLike != "" {
		args = append(args, "%"+filter.NameLike+"%")
		conds = append(conds, fmt.Sprintf("series_name ILIKE $%d", len(args)))
	}
	if filter.TickerLike != "" {
		args = append(args, "%"+filter.TickerLike+"%")
		conds = append(conds, fmt.Sprintf("ticker ILIKE $%d", len(args)))
	}

	query := `SELECT ` + seriesColumns + ` FROM meta_series`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	page := filter.Page.Clamp()
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY series_id LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, queryErr := pool.Query(ctx, query, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list meta series: %w", queryErr)
	}
	defer rows.Close()

	return collectSeries(rows)
}

// ListSeriesByIDs fetches series rows for a set of ids, active or not.
func (s *Store) ListSeriesByIDs(ctx context.Context, ids []int64) ([]Series, error) {
	if len(ids) == 0 {
		return []Series{}, nil
	}
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + seriesColumns + ` FROM meta_series WHERE series_id = ANY($1) ORDER BY series_id;`
	rows, queryErr := pool.Query(ctx, query, ids)
	if queryErr != nil {
		return nil, fmt.Errorf("list meta series by ids: %w", queryErr)
	}
	defer rows.Close()

	return collectSeries(rows)
}

// UpdateSeries replaces the mutable fields of a series and bumps its version.
func (s *Store) UpdateSeries(ctx context.Context, seriesID int64, in Series) (Series, error) {
	pool, err := s.getPool()
	if err != nil {
		return Series{}, err
	}

	row := pool.QueryRow(ctx, updateSeriesSQL,
		seriesID,
		in.SeriesName,
		in.Ticker,
		in.AssetClassID,
		in.ProductTypeID,
		in.IsDerived,
		in.CalculationMethod,
		in.IsActive,
		in.ValidFrom,
		in.ValidTo,
	)

	out, scanErr := scanSeries(row)
	if scanErr != nil {
		if isNoRows(scanErr) {
			return Series{}, ErrNotFound
		}
		return Series{}, fmt.Errorf("update meta series: %w", mapPgError(scanErr))
	}
	return out, nil
}

// SoftDeleteSeries flips the active flag; the row is never removed.
func (s *Store) SoftDeleteSeries(ctx context.Context, seriesID int64) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	cmdTag, execErr := pool.Exec(ctx, softDeleteSeriesSQL, seriesID)
	if execErr != nil {
		return fmt.Errorf("soft delete meta series: %w", execErr)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSeries(row pgx.Row) (Series, error) {
	var out Series
	if err := row.Scan(
		&out.SeriesID,
		&out.SeriesName,
		&out.Ticker,
		&out.AssetClassID,
		&out.ProductTypeID,
		&out.IsDerived,
		&out.CalculationMethod,
		&out.VersionNumber,
		&out.IsActive,
		&out.ValidFrom,
		&out.ValidTo,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return Series{}, err
	}
	return out, nil
}

func collectSeries(rows pgx.Rows) ([]Series, error) {
	list := make([]Series, 0)
	for rows.Next() {
		item, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return list, nil
}
