package models

import (
	"testing"
	"time"
)

func TestRunValidate(t *testing.T) {
	t.Run("completed run passes", func(t *testing.T) {
		run := NewRun(time.Now())
		run.SetStatus(RunStatusCompleted)
		if err := run.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("failed run passes", func(t *testing.T) {
		run := NewRun(time.Now())
		run.SetStatus(RunStatusFailed)
		if err := run.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		run := NewRun(time.Now())
		run.SetStatus("running")
		if err := run.Validate(); err == nil {
			t.Error("expected an error for an unknown status")
		}
	})

	t.Run("zero start time", func(t *testing.T) {
		run := NewRun(time.Time{})
		run.SetStatus(RunStatusCompleted)
		if err := run.Validate(); err == nil {
			t.Error("expected an error for a zero start time")
		}
	})
}

func TestRunDuration(t *testing.T) {
	started := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)

	t.Run("finished run", func(t *testing.T) {
		run := NewRun(started)
		run.SetFinishedAt(started.Add(90 * time.Second))
		if got := run.Duration(); got != 90*time.Second {
			t.Errorf("expected 90s, got %v", got)
		}
	})

	t.Run("unfinished run", func(t *testing.T) {
		run := NewRun(started)
		if got := run.Duration(); got != 0 {
			t.Errorf("expected 0 for an unfinished run, got %v", got)
		}
	})
}
