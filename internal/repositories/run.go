// package repositories provides the persistence layer for run history.
//
// The single repository implements models.Repository[*models.Run]. History is
// bookkeeping only: no media metadata is ever written here.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"plexloc/internal/models"
	"plexloc/internal/shared"
)

// RunRepository implements models.Repository[*models.Run] for run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run record into the database with a generated ID
func (r *RunRepository) Create(run *models.Run) error {
	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, status, sections, items, sort_writes, tag_writes,
			item_errors, error_message, started_at, finished_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorMessage any = run.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	_, err := r.db.Exec(query,
		id,
		run.Status(),
		run.Sections(),
		run.Items(),
		run.SortWrites(),
		run.TagWrites(),
		run.ItemErrors(),
		errorMessage,
		run.StartedAt(),
		run.FinishedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run record by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, status, sections, items, sort_writes, tag_writes,
			item_errors, error_message, started_at, finished_at,
			created_at, updated_at
		FROM runs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run record
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	run.SetUpdatedAt(time.Now())

	var errorMessage any = run.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	query := `
		UPDATE runs
		SET status = ?, sections = ?, items = ?, sort_writes = ?,
			tag_writes = ?, item_errors = ?, error_message = ?,
			finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.Status(),
		run.Sections(),
		run.Items(),
		run.SortWrites(),
		run.TagWrites(),
		run.ItemErrors(),
		errorMessage,
		run.FinishedAt(),
		run.UpdatedAt(),
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", run.ID())
	}

	return nil
}

// Delete removes a run record by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", id)
	}

	return nil
}

// List retrieves run records matching the given criteria, newest first.
// Supported criteria: "status" (string), "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `
		SELECT id, status, sections, items, sort_writes, tag_writes,
			item_errors, error_message, started_at, finished_at,
			created_at, updated_at
		FROM runs
	`

	var args []any
	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY started_at DESC"
	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	run, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	return run, err
}

func (r *RunRepository) scanRow(row rowScanner) (*models.Run, error) {
	var (
		id, status   string
		sections     int
		items        int
		sortWrites   int
		tagWrites    int
		itemErrors   int
		errorMessage sql.NullString
		startedAt    time.Time
		finishedAt   sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &status, &sections, &items, &sortWrites, &tagWrites,
		&itemErrors, &errorMessage, &startedAt, &finishedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	run := models.NewRun(startedAt)
	run.SetID(id)
	run.SetStatus(status)
	run.SetSections(sections)
	run.SetItems(items)
	run.SetSortWrites(sortWrites)
	run.SetTagWrites(tagWrites)
	run.SetItemErrors(itemErrors)
	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	if finishedAt.Valid {
		run.SetFinishedAt(finishedAt.Time)
	}
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	return run, nil
}
