package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"plexloc/internal/formatter"
	"plexloc/internal/models"
	"plexloc/internal/schedule"
	"plexloc/internal/shared"
	"plexloc/internal/tasks"
)

// startupBackoff is the short wait before exiting on a failed initial
// connectivity check. Wrong credentials or host will not fix themselves, so
// the process exits instead of retrying.
const startupBackoff = 10 * time.Second

// preflight validates the configuration and checks server connectivity.
func (r *Runner) preflight(ctx context.Context) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	name, err := r.plex.Identity(ctx)
	if err != nil {
		r.logger.Error("server connection failed", "error", err)
		r.logger.Error("check that the plex host and token are correct")
		time.Sleep(startupBackoff)
		return err
	}

	r.logger.Info("connected to server", "name", name)
	return nil
}

// executeRun performs one full pass: log housekeeping, the engine walk,
// history recording and a summary.
func (r *Runner) executeRun(ctx context.Context) (*tasks.RunResult, error) {
	if r.config.Logging.Dir != "" {
		deleted, err := shared.CleanOldLogs(r.config.Logging.Dir, r.config.Logging.RetentionDays)
		if err != nil {
			r.logger.Warn("log cleanup incomplete", "error", err)
		} else if deleted > 0 {
			r.logger.Info("log cleanup", "deleted", deleted)
		}
	}

	r.logger.Info("===== localization run starting =====")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Run(ctx, progressCh)
	close(progressCh)
	<-done

	r.recordRun(result, err)

	if err != nil {
		return result, err
	}

	r.logger.Info("===== localization run complete =====",
		"sections", result.Sections,
		"items", result.Items,
		"sortWrites", result.SortWrites,
		"tagWrites", result.TagWrites,
		"errors", result.ItemErrors,
	)
	return result, nil
}

// recordRun writes a run record to the history store when one is configured.
func (r *Runner) recordRun(result *tasks.RunResult, runErr error) {
	history, err := r.openHistory()
	if err != nil {
		r.logger.Warn("history store unavailable", "error", err)
		return
	}
	if history == nil {
		return
	}

	var run *models.Run
	if result != nil {
		run = result.Record()
	} else {
		run = models.NewRun(time.Now())
	}
	if runErr != nil {
		run.SetStatus(models.RunStatusFailed)
		run.SetErrorMessage(runErr.Error())
	}
	if run.FinishedAt().IsZero() {
		run.SetFinishedAt(time.Now())
	}

	if err := history.Create(run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
	}
}

// Run performs a single localization pass and optionally writes a report.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	// A bad report format must fail before any remote call is attempted.
	if cmd.String("report") != "" {
		switch cmd.String("format") {
		case "json", "csv", "markdown", "md", "":
		default:
			return fmt.Errorf("%w: unsupported report format %q", shared.ErrInvalidInput, cmd.String("format"))
		}
	}

	if err := r.preflight(ctx); err != nil {
		return err
	}

	result, err := r.executeRun(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader("Localization Complete")
	r.writePlain("Sections: %d\n", result.Sections)
	r.writePlain("Items: %d\n", result.Items)
	r.writePlain("Collections: %d\n", result.Collections)
	r.writePlain("Sort-title writes: %d\n", result.SortWrites)
	r.writePlain("Tag writes: %d\n", result.TagWrites)
	if result.ItemErrors > 0 {
		r.writePlain("Errors: %d (see log)\n", result.ItemErrors)
	}

	if reportPath := cmd.String("report"); reportPath != "" {
		if err := formatter.WriteRunReport(result, cmd.String("format"), reportPath); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", reportPath)
	}

	return nil
}

// Serve runs passes on the configured cron schedule. Without a schedule it
// behaves like a single `run` and exits.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	expr := cmd.String("cron")
	if expr == "" {
		expr = r.config.Schedule.Cron
	}

	if expr == "" {
		r.logger.Info("no schedule configured, running once")
		return r.Run(ctx, cmd)
	}

	// An invalid expression must fail before any remote call is attempted.
	if err := schedule.Validate(expr); err != nil {
		return err
	}

	if err := r.preflight(ctx); err != nil {
		return err
	}

	r.logger.Info("scheduled mode", "cron", expr, "retentionDays", r.config.Logging.RetentionDays)

	scheduler := schedule.NewScheduler(expr, shared.WithLogger(r.logger, "component", "scheduler"))
	err := scheduler.Run(ctx, func(ctx context.Context) error {
		_, err := r.executeRun(ctx)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Sections lists library sections, doubling as a connectivity check.
func (r *Runner) Sections(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	sections, err := r.plex.Sections(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type sectionOut struct {
			Key   string `json:"key"`
			Type  string `json:"type"`
			Title string `json:"title"`
		}
		out := make([]sectionOut, 0, len(sections))
		for _, s := range sections {
			out = append(out, sectionOut{Key: s.Key, Type: s.Type.String(), Title: s.Title})
		}
		return r.writeJSON(out, true)
	}

	r.writePlainHeader("Library Sections")
	for _, s := range sections {
		r.writePlain("%s  %-8s %s\n", s.Key, s.Type.String(), s.Title)
	}
	return nil
}

// History lists recorded runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	history, err := r.openHistory()
	if err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("no history database configured (set database.path)")
	}

	runs, err := history.List(map[string]any{"limit": int(cmd.Int("limit"))})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type runOut struct {
			ID         string    `json:"id"`
			Status     string    `json:"status"`
			Sections   int       `json:"sections"`
			Items      int       `json:"items"`
			SortWrites int       `json:"sort_writes"`
			TagWrites  int       `json:"tag_writes"`
			ItemErrors int       `json:"item_errors"`
			StartedAt  time.Time `json:"started_at"`
			FinishedAt time.Time `json:"finished_at"`
		}
		out := make([]runOut, 0, len(runs))
		for _, run := range runs {
			out = append(out, runOut{
				ID:         run.ID(),
				Status:     run.Status(),
				Sections:   run.Sections(),
				Items:      run.Items(),
				SortWrites: run.SortWrites(),
				TagWrites:  run.TagWrites(),
				ItemErrors: run.ItemErrors(),
				StartedAt:  run.StartedAt(),
				FinishedAt: run.FinishedAt(),
			})
		}
		return r.writeJSON(out, true)
	}

	r.writePlainHeader("Run History")
	for _, run := range runs {
		r.writePlain("%s  %-9s  items=%d sort=%d tags=%d errors=%d  %s\n",
			run.StartedAt().Format(time.DateTime),
			run.Status(),
			run.Items(),
			run.SortWrites(),
			run.TagWrites(),
			run.ItemErrors(),
			run.Duration().Round(time.Second),
		)
	}
	return nil
}

// SetupConfig writes the example config to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.writePlain("Config written to %s\n", path)
	return nil
}

// SetupDatabase initializes the history database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	history, err := r.openHistory()
	if err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("no history database configured (set database.path)")
	}
	r.writePlain("History database ready at %s\n", r.config.Database.Path)
	return nil
}
