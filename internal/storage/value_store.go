package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	observationColumns = `series_id,
        observed_at,
        value,
        is_derived,
        created_at,
        updated_at`

	upsertObservationSQL = `INSERT INTO value_data (
        series_id,
        observed_at,
        value,
        is_derived
    ) VALUES (
        $1,$2,$3,$4
    )
    ON CONFLICT (series_id, observed_at) DO UPDATE
    SET value      = EXCLUDED.value,
        is_derived = EXCLUDED.is_derived,
        updated_at = now()
    RETURNING ` + observationColumns + `;`

	getObservationSQL = `SELECT ` + observationColumns + `
    FROM value_data
    WHERE series_id = $1
      AND observed_at = $2;`
)

// UpsertObservation persists or overwrites the observation keyed by
// (series, date) and returns the stored row.
func (s *Store) UpsertObservation(ctx context.Context, in Observation) (Observation, error) {
	pool, err := s.getPool()
	if err != nil {
		return Observation{}, err
	}

	row := pool.QueryRow(ctx, upsertObservationSQL,
		in.SeriesID,
		in.ObservedAt,
		in.Value.String(),
		in.IsDerived,
	)

	out, scanErr := scanObservation(row)
	if scanErr != nil {
		return Observation{}, fmt.Errorf("upsert observation: %w", mapPgError(scanErr))
	}
	return out, nil
}

// GetObservation fetches one observation by its composite key.
func (s *Store) GetObservation(ctx context.Context, seriesID int64, observedAt time.Time) (Observation, error) {
	pool, err := s.getPool()
	if err != nil {
		return Observation{}, err
	}

	out, scanErr := scanObservation(pool.QueryRow(ctx, getObservationSQL, seriesID, observedAt))
	if scanErr != nil {
		if isNoRows(scanErr) {
			return Observation{}, ErrNotFound
		}
		return Observation{}, fmt.Errorf("get observation: %w", scanErr)
	}
	return out, nil
}

// ListObservations lists observations ordered by (series, date).
func (s *Store) ListObservations(ctx context.Context, filter ObservationFilter) ([]Observation, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	if len(filter.SeriesIDs) > 0 {
		args = append(args, filter.SeriesIDs)
		conds = append(conds, fmt.Sprintf("series_id = ANY($%d)", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("observed_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("observed_at <= $%d", len(args)))
	}
	if filter.IsDerived != nil {
		args = append(args, *filter.IsDerived)
		conds = append(conds, fmt.Sprintf("is_derived = $%d", len(args)))
	}

	query := `SELECT ` + observationColumns + ` FROM value_data`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	page := filter.Page.Clamp()
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY series_id, observed_at LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, queryErr := pool.Query(ctx, query, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list observations: %w", queryErr)
	}
	defer rows.Close()

	list := make([]Observation, 0)
	for rows.Next() {
		item, scanErr := scanObservation(rows)
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

func scanObservation(row pgx.Row) (Observation, error) {
	var (
		out      Observation
		valueStr string
	)
	if err := row.Scan(
		&out.SeriesID,
		&out.ObservedAt,
		&valueStr,
		&out.IsDerived,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return Observation{}, err
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return Observation{}, fmt.Errorf("parse observation value: %w", err)
	}
	out.Value = value

	return out, nil
}
