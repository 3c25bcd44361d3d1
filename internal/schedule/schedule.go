// package schedule drives recurring localization passes from a cron expression.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"plexloc/internal/shared"
)

// parser accepts standard five-field cron expressions.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// DefaultCooldown is the fixed wait after a failed run before the next
// trigger is recomputed, avoiding a tight failure loop.
const DefaultCooldown = 60 * time.Second

// Validate checks that expr is a parseable cron expression.
func Validate(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("%w: %q: %v", shared.ErrInvalidSchedule, expr, err)
	}
	return nil
}

// Next computes the next trigger instant for expr strictly after from.
func Next(expr string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", shared.ErrInvalidSchedule, expr, err)
	}
	return sched.Next(from), nil
}

// Scheduler re-invokes a run function at every cron trigger.
type Scheduler struct {
	Expression string
	Cooldown   time.Duration
	Logger     *log.Logger
}

// NewScheduler creates a Scheduler for the given cron expression.
func NewScheduler(expr string, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Scheduler{
		Expression: expr,
		Cooldown:   DefaultCooldown,
		Logger:     logger,
	}
}

// Run loops indefinitely: compute next trigger, wait, invoke runFn.
//
// The next trigger is always computed from the current instant, never from
// the previous trigger, so delayed runs do not cause catch-up bursts. A
// failed run is logged and followed by the cooldown before recomputing.
// Returns ctx.Err() once the context is cancelled; cancellation is only
// honored between runs.
func (s *Scheduler) Run(ctx context.Context, runFn func(context.Context) error) error {
	sched, err := parser.Parse(s.Expression)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", shared.ErrInvalidSchedule, s.Expression, err)
	}

	cooldown := s.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	for {
		next := sched.Next(time.Now())
		s.Logger.Info("next run scheduled", "at", next.Format(time.DateTime))

		if err := sleep(ctx, time.Until(next)); err != nil {
			return err
		}

		if err := runFn(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Logger.Error("run failed", "error", err)
			if err := sleep(ctx, cooldown); err != nil {
				return err
			}
		}
	}
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
