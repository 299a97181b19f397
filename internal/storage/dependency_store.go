package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	insertDependencySQL = `INSERT INTO series_dependency_graph (
        parent_series_id,
        child_series_id,
        dependency_type,
        weight,
        formula,
        is_active
    ) VALUES (
        $1,$2,$3,$4,$5,$6
    )
    RETURNING dependency_id, parent_series_id, child_series_id, dependency_type, weight, formula, is_active, created_at;`

	calculationColumns = `calculation_id,
        derived_series_id,
        calculation_method,
        input_series_ids,
        calculation_parameters,
        calculation_status,
        error_message,
        execution_time_ms,
        calculated_at,
        calculated_by,
        created_at`

	insertCalculationSQL = `INSERT INTO calculation_log (
        derived_series_id,
        calculation_method,
        input_series_ids,
        calculation_parameters,
        calculation_status,
        error_message,
        execution_time_ms,
        calculated_at,
        calculated_by
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9
    )
    RETURNING ` + calculationColumns + `;`

	getCalculationSQL = `SELECT ` + calculationColumns + `
    FROM calculation_log
    WHERE calculation_id = $1;`
)

// CreateDependency records one edge of the dependency graph. Unknown
// series ids surface as ErrForeignKey via the table constraints.
func (s *Store) CreateDependency(ctx context.Context, in Dependency) (Dependency, error) {
	pool, err := s.getPool()
	if err != nil {
		return Dependency{}, err
	}

	var weight any
	if in.Weight != nil {
		weight = in.Weight.String()
	}

	row := pool.QueryRow(ctx, insertDependencySQL,
		in.ParentSeriesID,
		in.ChildSeriesID,
		in.DependencyType,
		weight,
		in.Formula,
		in.IsActive,
	)

	out, scanErr := scanDependency(row)
	if scanErr != nil {
		return Dependency{}, fmt.Errorf("insert dependency: %w", mapPgError(scanErr))
	}
	return out, nil
}

// ListDependencies lists dependency edges ordered by id.
func (s *Store) ListDependencies(ctx context.Context, filter DependencyFilter) ([]Dependency, error) {
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
	if filter.ParentSeriesID != nil {
		args = append(args, *filter.ParentSeriesID)
		conds = append(conds, fmt.Sprintf("parent_series_id = $%d", len(args)))
	}
	if filter.ChildSeriesID != nil {
		args = append(args, *filter.ChildSeriesID)
		conds = append(conds, fmt.Sprintf("child_series_id = $%d", len(args)))
	}
	if filter.DependencyType != "" {
		args = append(args, filter.DependencyType)
		conds = append(conds, fmt.Sprintf("dependency_type = $%d", len(args)))
	}

	query := `SELECT dependency_id, parent_series_id, child_series_id, dependency_type, weight, formula, is_active, created_at
    FROM series_dependency_graph`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	page := filter.Page.Clamp()
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY dependency_id LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, queryErr := pool.Query(ctx, query, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list dependencies: %w", queryErr)
	}
	defer rows.Close()

	list := make([]Dependency, 0)
	for rows.Next() {
		item, scanErr := scanDependency(rows)
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

// CreateCalculation appends one calculation log entry.
func (s *Store) CreateCalculation(ctx context.Context, in Calculation) (Calculation, error) {
	pool, err := s.getPool()
	if err != nil {
		return Calculation{}, err
	}

	var params any
	if len(in.Parameters) > 0 {
		params = []byte(in.Parameters)
	}

	row := pool.QueryRow(ctx, insertCalculationSQL,
		in.DerivedSeriesID,
		in.CalculationMethod,
		in.InputSeriesIDs,
		params,
		in.Status,
		in.ErrorMessage,
		in.ExecutionTimeMS,
		in.CalculatedAt,
		in.CalculatedBy,
	)

	out, scanErr := scanCalculation(row)
	if scanErr != nil {
		return Calculation{}, fmt.Errorf("insert calculation: %w", mapPgError(scanErr))
	}
	return out, nil
}

// GetCalculation fetches one calculation log entry by id.
func (s *Store) GetCalculation(ctx context.Context, calculationID int64) (Calculation, error) {
	pool, err := s.getPool()
	if err != nil {
		return Calculation{}, err
	}

	out, scanErr := scanCalculation(pool.QueryRow(ctx, getCalculationSQL, calculationID))
	if scanErr != nil {
		if isNoRows(scanErr) {
			return Calculation{}, ErrNotFound
		}
		return Calculation{}, fmt.Errorf("get calculation: %w", scanErr)
	}
	return out, nil
}

// ListCalculations lists calculation log entries ordered by id.
func (s *Store) ListCalculations(ctx context.Context, filter CalculationFilter) ([]Calculation, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	if filter.DerivedSeriesID != nil {
		args = append(args, *filter.DerivedSeriesID)
		conds = append(conds, fmt.Sprintf("derived_series_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("calculation_status = $%d", len(args)))
	}
	if filter.Method != "" {
		args = append(args, filter.Method)
		conds = append(conds, fmt.Sprintf("calculation_method = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("calculated_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("calculated_at <= $%d", len(args)))
	}

	query := `SELECT ` + calculationColumns + ` FROM calculation_log`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	page := filter.Page.Clamp()
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY calculation_id LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, queryErr := pool.Query(ctx, query, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list calculations: %w", queryErr)
	}
	defer rows.Close()

	list := make([]Calculation, 0)
	for rows.Next() {
		item, scanErr := scanCalculation(rows)
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

func scanDependency(row pgx.Row) (Dependency, error) {
	var (
		out       Dependency
		weightStr *string
	)
	if err := row.Scan(
		&out.DependencyID,
		&out.ParentSeriesID,
		&out.ChildSeriesID,
		&out.DependencyType,
		&weightStr,
		&out.Formula,
		&out.IsActive,
		&out.CreatedAt,
	); err != nil {
		return Dependency{}, err
	}

	if weightStr != nil {
		weight, err := decimal.NewFromString(*weightStr)
		if err != nil {
			return Dependency{}, fmt.Errorf("parse dependency weight: %w", err)
		}
		out.Weight = &weight
	}

	return out, nil
}

func scanCalculation(row pgx.Row) (Calculation, error) {
	var (
		out    Calculation
		params []byte
	)
	if err := row.Scan(
		&out.CalculationID,
		&out.DerivedSeriesID,
		&out.CalculationMethod,
		&out.InputSeriesIDs,
		&params,
		&out.Status,
		&out.ErrorMessage,
		&out.ExecutionTimeMS,
		&out.CalculatedAt,
		&out.CalculatedBy,
		&out.CreatedAt,
	); err != nil {
		return Calculation{}, err
	}
	if len(params) > 0 {
		out.Parameters = params
	}
	return out, nil
}
