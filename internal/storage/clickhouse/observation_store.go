package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"findata-api/internal/storage"
)

// ObservationStore implements storage.ObservationStore using ClickHouse.
// The backing table is a ReplacingMergeTree keyed by (series_id,
// observed_at) with updated_at as the version column, so upserts are plain
// inserts and reads use FINAL to collapse to the latest version.
type ObservationStore struct {
	conn *Conn
}

// NewObservationStore creates a new ObservationStore.
func NewObservationStore(conn *Conn) *ObservationStore {
	return &ObservationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ObservationStore = (*ObservationStore)(nil)

const observationSelect = `SELECT series_id, observed_at, value, is_derived, created_at, updated_at
	FROM value_data FINAL`

// UpsertObservation inserts a new row version for the (series, date) key.
// The prior version's created_at is carried over so overwrites keep the
// original creation timestamp, matching the relational backend.
func (s *ObservationStore) UpsertObservation(ctx context.Context, in storage.Observation) (storage.Observation, error) {
	now := time.Now().UTC().Truncate(time.Second)
	out := in
	out.ObservedAt = dateOnly(in.ObservedAt)
	out.CreatedAt = now
	out.UpdatedAt = now

	if prior, err := s.GetObservation(ctx, in.SeriesID, in.ObservedAt); err == nil {
		out.CreatedAt = prior.CreatedAt
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.Observation{}, fmt.Errorf("read prior observation: %w", err)
	}

	err := s.conn.Exec(ctx, `
		INSERT INTO value_data (series_id, observed_at, value, is_derived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		uint64(out.SeriesID),
		out.ObservedAt,
		out.Value.InexactFloat64(),
		out.IsDerived,
		out.CreatedAt,
		out.UpdatedAt,
	)
	if err != nil {
		return storage.Observation{}, fmt.Errorf("insert observation: %w", err)
	}

	return out, nil
}

// GetObservation fetches one observation by its composite key.
func (s *ObservationStore) GetObservation(ctx context.Context, seriesID int64, observedAt time.Time) (storage.Observation, error) {
	query := observationSelect + `
	WHERE series_id = ? AND observed_at = ?`

	row := s.conn.QueryRow(ctx, query, uint64(seriesID), dateOnly(observedAt))
	out, err := scanObservation(row)
	if err != nil {
		if isNoRows(err) {
			return storage.Observation{}, storage.ErrNotFound
		}
		return storage.Observation{}, fmt.Errorf("get observation: %w", err)
	}
	return out, nil
}

// ListObservations lists observations ordered by (series, date).
func (s *ObservationStore) ListObservations(ctx context.Context, filter storage.ObservationFilter) ([]storage.Observation, error) {
	var (
		conds []string
		args  []any
	)
	if len(filter.SeriesIDs) > 0 {
		ids := make([]uint64, len(filter.SeriesIDs))
		for i, id := range filter.SeriesIDs {
			ids[i] = uint64(id)
		}
		conds = append(conds, "series_id IN (?)")
		args = append(args, ids)
	}
	if filter.From != nil {
		conds = append(conds, "observed_at >= ?")
		args = append(args, dateOnly(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "observed_at <= ?")
		args = append(args, dateOnly(*filter.To))
	}
	if filter.IsDerived != nil {
		conds = append(conds, "is_derived = ?")
		args = append(args, *filter.IsDerived)
	}

	query := observationSelect
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	page := filter.Page.Clamp()
	query += "\n\tORDER BY series_id, observed_at LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	list := make([]storage.Observation, 0)
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

type scannable interface {
	Scan(dest ...any) error
}

func scanObservation(row scannable) (storage.Observation, error) {
	var (
		out      storage.Observation
		seriesID uint64
		value    float64
	)
	if err := row.Scan(
		&seriesID,
		&out.ObservedAt,
		&value,
		&out.IsDerived,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return storage.Observation{}, err
	}
	out.SeriesID = int64(seriesID)
	out.Value = decimal.NewFromFloat(value)
	return out, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
