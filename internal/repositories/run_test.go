package repositories

import (
	"database/sql"
	"testing"
	"time"

	"plexloc/internal/models"
	"plexloc/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// In-memory databases are per-connection; keep the pool at one.
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func completedRun(startedAt time.Time) *models.Run {
	run := models.NewRun(startedAt)
	run.SetStatus(models.RunStatusCompleted)
	run.SetFinishedAt(startedAt.Add(2 * time.Minute))
	run.SetSections(3)
	run.SetItems(120)
	run.SetSortWrites(14)
	run.SetTagWrites(40)
	return run
}

func TestRunRepositoryCreate(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	t.Run("assigns an id and persists", func(t *testing.T) {
		run := completedRun(time.Now())
		if err := repo.Create(run); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if run.ID() == "" {
			t.Fatal("expected an ID to be assigned")
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("expected the run to be retrievable, got %v", err)
		}
		if got.Status() != models.RunStatusCompleted {
			t.Errorf("unexpected status %q", got.Status())
		}
		if got.Sections() != 3 || got.Items() != 120 {
			t.Errorf("counters not persisted: %d sections, %d items", got.Sections(), got.Items())
		}
		if got.SortWrites() != 14 || got.TagWrites() != 40 {
			t.Errorf("write counters not persisted")
		}
		if got.ErrorMessage() != "" {
			t.Errorf("expected empty error message, got %q", got.ErrorMessage())
		}
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		run := models.NewRun(time.Now())
		run.SetStatus("running")
		if err := repo.Create(run); err == nil {
			t.Error("expected validation to fail")
		}
	})

	t.Run("persists failure details", func(t *testing.T) {
		run := models.NewRun(time.Now())
		run.SetStatus(models.RunStatusFailed)
		run.SetErrorMessage("failed to list sections: connection refused")
		if err := repo.Create(run); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("expected the run to be retrievable, got %v", err)
		}
		if got.ErrorMessage() != "failed to list sections: connection refused" {
			t.Errorf("unexpected error message %q", got.ErrorMessage())
		}
	})
}

func TestRunRepositoryGet(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))
	if _, err := repo.Get("missing"); err == nil {
		t.Error("expected an error for a missing run")
	}
}

func TestRunRepositoryUpdate(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	t.Run("updates persisted fields", func(t *testing.T) {
		run := completedRun(time.Now())
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		run.SetStatus(models.RunStatusFailed)
		run.SetErrorMessage("interrupted")
		if err := repo.Update(run); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to re-read run: %v", err)
		}
		if got.Status() != models.RunStatusFailed || got.ErrorMessage() != "interrupted" {
			t.Errorf("update not persisted: %q / %q", got.Status(), got.ErrorMessage())
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		run := completedRun(time.Now())
		run.SetID("missing")
		if err := repo.Update(run); err == nil {
			t.Error("expected an error for an unknown run")
		}
	})
}

func TestRunRepositoryDelete(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	run := completedRun(time.Now())
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := repo.Delete(run.ID()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := repo.Get(run.ID()); err == nil {
		t.Error("expected the run to be gone")
	}
	if err := repo.Delete(run.ID()); err == nil {
		t.Error("expected an error deleting a missing run")
	}
}

func TestRunRepositoryList(t *testing.T) {
	repo := NewRunRepository(newTestDB(t))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		run := completedRun(base.Add(time.Duration(i) * time.Minute))
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
	}
	failed := models.NewRun(base.Add(10 * time.Minute))
	failed.SetStatus(models.RunStatusFailed)
	failed.SetErrorMessage("boom")
	if err := repo.Create(failed); err != nil {
		t.Fatalf("failed to create failed run: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 4 {
			t.Fatalf("expected 4 runs, got %d", len(runs))
		}
		for i := 1; i < len(runs); i++ {
			if runs[i].StartedAt().After(runs[i-1].StartedAt()) {
				t.Error("expected runs ordered newest first")
			}
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		runs, err := repo.List(map[string]any{"status": models.RunStatusFailed})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 1 || runs[0].ErrorMessage() != "boom" {
			t.Errorf("unexpected filtered result: %d runs", len(runs))
		}
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})
}
