package schedule

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"plexloc/internal/shared"
)

func TestValidate(t *testing.T) {
	t.Run("accepts five-field expressions", func(t *testing.T) {
		for _, expr := range []string{"0 3 * * *", "*/15 * * * *", "30 2 * * 1-5"} {
			if err := Validate(expr); err != nil {
				t.Errorf("expected %q to be valid, got %v", expr, err)
			}
		}
	})

	t.Run("rejects malformed expressions", func(t *testing.T) {
		for _, expr := range []string{"", "not a cron", "0 3 * *", "61 * * * *"} {
			err := Validate(expr)
			if err == nil {
				t.Errorf("expected %q to be rejected", expr)
				continue
			}
			if !errors.Is(err, shared.ErrInvalidSchedule) {
				t.Errorf("expected ErrInvalidSchedule for %q, got %v", expr, err)
			}
		}
	})
}

func TestNext(t *testing.T) {
	t.Run("computes the trigger after from", func(t *testing.T) {
		from := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
		next, err := Next("0 3 * * *", from)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC)
		if !next.Equal(want) {
			t.Errorf("expected %v, got %v", want, next)
		}
	})

	t.Run("never returns from itself", func(t *testing.T) {
		from := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
		next, err := Next("0 3 * * *", from)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !next.After(from) {
			t.Errorf("expected trigger strictly after %v, got %v", from, next)
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		if _, err := Next("bogus", time.Now()); !errors.Is(err, shared.ErrInvalidSchedule) {
			t.Errorf("expected ErrInvalidSchedule, got %v", err)
		}
	})
}

func TestSchedulerRun(t *testing.T) {
	t.Run("invalid expression fails before any run", func(t *testing.T) {
		s := NewScheduler("bogus", log.New(io.Discard))

		invoked := false
		err := s.Run(context.Background(), func(context.Context) error {
			invoked = true
			return nil
		})
		if !errors.Is(err, shared.ErrInvalidSchedule) {
			t.Errorf("expected ErrInvalidSchedule, got %v", err)
		}
		if invoked {
			t.Error("run function must not be invoked for an invalid schedule")
		}
	})

	t.Run("cancellation stops the loop", func(t *testing.T) {
		s := NewScheduler("0 3 * * *", log.New(io.Discard))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Run(ctx, func(context.Context) error {
			t.Error("run function must not be invoked after cancellation")
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		s := NewScheduler("0 3 * * *", nil)
		if s.Cooldown != DefaultCooldown {
			t.Errorf("expected default cooldown, got %v", s.Cooldown)
		}
		if s.Logger == nil {
			t.Error("expected a default logger")
		}
	})
}

func TestSleep(t *testing.T) {
	t.Run("returns immediately for nonpositive durations", func(t *testing.T) {
		if err := sleep(context.Background(), 0); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
