// Package repositories provides data access for persisted cleaning runs.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/database"
	"github.com/dedupkit/dedup-engine/pkg/models"
)

// RunRepository provides data access for the cleaning-run history.
type RunRepository interface {
	// Create inserts a new cleaning run record.
	Create(ctx context.Context, run *models.CleaningRun) error

	// GetByID returns one run, or apperrors.ErrRunNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.CleaningRun, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]*models.CleaningRun, error)
}

type runRepository struct {
	db *database.DB
}

// NewRunRepository creates a new RunRepository backed by PostgreSQL.
func NewRunRepository(db *database.DB) RunRepository {
	return &runRepository{db: db}
}

var _ RunRepository = (*runRepository)(nil)

func (r *runRepository) Create(ctx context.Context, run *models.CleaningRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO cleaning_runs (
			id, filename, format, input_rows, cleaned_rows, rows_removed,
			duplicate_groups, unparseable_dates, identifier_column, date_column, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		run.ID,
		run.Filename,
		run.Format,
		run.InputRows,
		run.CleanedRows,
		run.RowsRemoved,
		run.DuplicateGroups,
		run.UnparseableDates,
		run.IdentifierColumn,
		run.DateColumn,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cleaning run: %w", err)
	}

	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CleaningRun, error) {
	query := `
		SELECT id, filename, format, input_rows, cleaned_rows, rows_removed,
		       duplicate_groups, unparseable_dates, identifier_column, date_column, created_at
		FROM cleaning_runs
		WHERE id = $1`

	run, err := scanCleaningRun(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func (r *runRepository) List(ctx context.Context, limit int) ([]*models.CleaningRun, error) {
	query := `
		SELECT id, filename, format, input_rows, cleaned_rows, rows_removed,
		       duplicate_groups, unparseable_dates, identifier_column, date_column, created_at
		FROM cleaning_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleaning runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.CleaningRun
	for rows.Next() {
		run, err := scanCleaningRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cleaning runs: %w", err)
	}

	return runs, nil
}

func scanCleaningRun(row pgx.Row) (*models.CleaningRun, error) {
	var run models.CleaningRun
	err := row.Scan(
		&run.ID,
		&run.Filename,
		&run.Format,
		&run.InputRows,
		&run.CleanedRows,
		&run.RowsRemoved,
		&run.DuplicateGroups,
		&run.UnparseableDates,
		&run.IdentifierColumn,
		&run.DateColumn,
		&run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan cleaning run: %w", err)
	}
	return &run, nil
}
