package models

import (
	"fmt"
	"time"
)

// Run statuses
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run records the outcome of one full localization pass for the history store.
//
// Only bookkeeping lives here; media metadata itself is never persisted
// locally, the Plex server stays the sole durable state for it.
type Run struct {
	id             string
	status         string
	sections       int
	items          int
	sortWrites     int
	tagWrites      int
	itemErrors     int
	errorMessage   string
	startedAt      time.Time
	finishedAt     time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewRun creates a Run record for a pass that started at the given instant.
func NewRun(startedAt time.Time) *Run {
	now := time.Now()
	return &Run{
		startedAt: startedAt,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Run) ID() string            { return r.id }
func (r *Run) CreatedAt() time.Time  { return r.createdAt }
func (r *Run) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Run) Status() string        { return r.status }
func (r *Run) Sections() int         { return r.sections }
func (r *Run) Items() int            { return r.items }
func (r *Run) SortWrites() int       { return r.sortWrites }
func (r *Run) TagWrites() int        { return r.tagWrites }
func (r *Run) ItemErrors() int       { return r.itemErrors }
func (r *Run) ErrorMessage() string  { return r.errorMessage }
func (r *Run) StartedAt() time.Time  { return r.startedAt }
func (r *Run) FinishedAt() time.Time { return r.finishedAt }

func (r *Run) SetID(id string)              { r.id = id }
func (r *Run) SetCreatedAt(t time.Time)     { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)     { r.updatedAt = t }
func (r *Run) SetStatus(s string)           { r.status = s }
func (r *Run) SetSections(n int)            { r.sections = n }
func (r *Run) SetItems(n int)               { r.items = n }
func (r *Run) SetSortWrites(n int)          { r.sortWrites = n }
func (r *Run) SetTagWrites(n int)           { r.tagWrites = n }
func (r *Run) SetItemErrors(n int)          { r.itemErrors = n }
func (r *Run) SetErrorMessage(msg string)   { r.errorMessage = msg }
func (r *Run) SetStartedAt(t time.Time)     { r.startedAt = t }
func (r *Run) SetFinishedAt(t time.Time)    { r.finishedAt = t }

// Duration returns the wall-clock length of the run.
func (r *Run) Duration() time.Duration {
	if r.finishedAt.IsZero() {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}

// Validate checks if the run's data is valid.
func (r *Run) Validate() error {
	if r.status != RunStatusCompleted && r.status != RunStatusFailed {
		return fmt.Errorf("invalid run status %q", r.status)
	}
	if r.startedAt.IsZero() {
		return fmt.Errorf("run started_at is required")
	}
	return nil
}
