// package tasks implements the library walk that localizes Plex metadata.
//
// The core abstraction is Engine, which enumerates library sections, fans out
// per-item processing across a bounded worker pool, and walks collection
// entries as a second lightweight pass. Progress is emitted via channels for
// non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"plexloc/internal/models"
	"plexloc/internal/shared"
)

// Default pool sizing and request rate against the Plex server.
const (
	DefaultWorkers   = 16
	DefaultRateLimit = 8.0
)

// LibraryService is the remote library client consumed by the engine.
// services.PlexService satisfies it; tests substitute fakes.
type LibraryService interface {
	Sections(ctx context.Context) ([]models.Section, error)
	ItemKeys(ctx context.Context, sectionKey string, mediaType models.MediaType) ([]string, error)
	Item(ctx context.Context, ratingKey string) (*models.Item, error)
	Collections(ctx context.Context, sectionKey string) ([]models.Collection, error)
	SetSortTitle(ctx context.Context, ratingKey string, mediaType models.MediaType, value string, locked bool) error
	SetFacetTag(ctx context.Context, ratingKey string, mediaType models.MediaType, facet models.Facet, oldTag, newTag string) error
}

// ChangeRecord describes one metadata write issued during a run.
type ChangeRecord struct {
	RatingKey string `json:"rating_key"`
	Title     string `json:"title"`
	Field     string `json:"field"` // titleSort, genre, style or mood
	Before    string `json:"before"`
	After     string `json:"after"`
}

// RunResult contains the outcome of one full localization pass.
type RunResult struct {
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Sections    int            `json:"sections"`    // Non-photo sections walked
	Items       int            `json:"items"`       // Media items submitted to processors
	Collections int            `json:"collections"` // Collection entries examined
	SortWrites  int            `json:"sort_writes"` // Sort-title mutations issued
	TagWrites   int            `json:"tag_writes"`  // Facet tag mutations issued
	ItemErrors  int            `json:"item_errors"` // Items or writes skipped on error
	Changes     []ChangeRecord `json:"changes"`
}

// Record converts the result into a run-history entity.
func (r *RunResult) Record() *models.Run {
	run := models.NewRun(r.StartedAt)
	run.SetFinishedAt(r.FinishedAt)
	run.SetStatus(models.RunStatusCompleted)
	run.SetSections(r.Sections)
	run.SetItems(r.Items)
	run.SetSortWrites(r.SortWrites)
	run.SetTagWrites(r.TagWrites)
	run.SetItemErrors(r.ItemErrors)
	return run
}

// EngineOpts contains tunables for the Engine.
type EngineOpts struct {
	Workers   int     // Per-batch worker pool cap (default 16)
	RateLimit float64 // Remote requests per second, 0 for default
	Logger    *log.Logger
}

// Engine walks the library and applies the localization rules.
//
// The walk is strictly sequential across sections and across batches within a
// music section (artists drain fully before albums start); only items inside
// one batch are processed concurrently, bounding peak concurrency against
// the server.
type Engine struct {
	library LibraryService
	logger  *log.Logger
	workers int
	limiter *rate.Limiter
}

// NewEngine creates an Engine over the given library client.
func NewEngine(library LibraryService, opts EngineOpts) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Engine{
		library: library,
		logger:  logger,
		workers: workers,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
	}
}

// runState accumulates counters and change records across concurrent workers.
type runState struct {
	mu     sync.Mutex
	result *RunResult
}

func (s *runState) addChange(c ChangeRecord, isSort bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isSort {
		s.result.SortWrites++
	} else {
		s.result.TagWrites++
	}
	s.result.Changes = append(s.result.Changes, c)
}

func (s *runState) addError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.ItemErrors++
}

func (s *runState) addItems(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Items += n
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// wait blocks until the rate limiter admits one more remote request.
func (e *Engine) wait(ctx context.Context) error {
	return e.limiter.Wait(ctx)
}

// Run performs one full localization pass: every non-photo section's media
// items, then every section's collections. Run-level failures (section list
// or item-key list unavailable) abandon the pass; per-item failures are
// logged and skipped.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library client not initialized", shared.ErrServiceUnavailable)
	}

	result := &RunResult{StartedAt: time.Now()}
	st := &runState{result: result}

	e.sendProgress(progress, fetchSectionsUpdate())
	sections, err := e.library.Sections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}

	for i, section := range sections {
		if section.Type == models.TypePhoto {
			continue
		}
		result.Sections++

		e.sendProgress(progress, sectionUpdate(i+1, len(sections), section.Title))
		e.logger.Info("processing section", "title", section.Title, "type", section.Type.String())

		batchTypes := []models.MediaType{section.Type}
		if section.Type == models.TypeArtist {
			// Music sections carry three item streams under one section key.
			batchTypes = []models.MediaType{models.TypeArtist, models.TypeAlbum, models.TypeTrack}
		}

		for _, mediaType := range batchTypes {
			keys, err := e.library.ItemKeys(ctx, section.Key, mediaType)
			if err != nil {
				return result, fmt.Errorf("failed to list %s keys in section %s: %w", mediaType, section.Title, err)
			}

			e.logger.Info("batch", "type", mediaType.String(), "count", len(keys))
			e.sendProgress(progress, batchUpdate(mediaType, len(keys)))
			st.addItems(len(keys))

			e.processBatch(ctx, st, mediaType, keys)

			if ctx.Err() != nil {
				return result, ctx.Err()
			}
		}
	}

	if err := e.runCollections(ctx, st, sections, progress); err != nil {
		return result, err
	}

	result.FinishedAt = time.Now()
	return result, nil
}

// processBatch submits every key in the batch to the worker pool and drains
// it completely. Order across items within a batch is unspecified.
func (e *Engine) processBatch(ctx context.Context, st *runState, mediaType models.MediaType, keys []string) {
	if len(keys) == 0 {
		return
	}

	workers := e.workers
	if workers > len(keys) {
		workers = len(keys)
	}

	jobs := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				e.processItem(ctx, st, mediaType, key)
			}
		}()
	}

	for _, key := range keys {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- key:
		}
	}
	close(jobs)
	wg.Wait()
}

// runCollections is the second full pass: collection entries get the
// sort-title rule only, sequentially across sections.
func (e *Engine) runCollections(ctx context.Context, st *runState, sections []models.Section, progress chan<- ProgressUpdate) error {
	for _, section := range sections {
		if section.Type == models.TypePhoto {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		collections, err := e.library.Collections(ctx, section.Key)
		if err != nil {
			return fmt.Errorf("failed to list collections in section %s: %w", section.Title, err)
		}

		e.logger.Info("collections", "section", section.Title, "count", len(collections))
		e.sendProgress(progress, collectionsUpdate(section.Title, len(collections)))

		for _, collection := range collections {
			st.mu.Lock()
			st.result.Collections++
			st.mu.Unlock()
			e.processCollection(ctx, st, section.Type, collection)
		}
	}

	return nil
}
