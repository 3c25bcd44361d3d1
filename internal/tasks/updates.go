package tasks

import (
	"fmt"

	"plexloc/internal/models"
)

// ProgressUpdate represents a progress event during a localization pass.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchSections Phase = iota
	ProcessSection
	ProcessBatch
	ProcessCollections
)

func (p Phase) String() string {
	switch p {
	case FetchSections:
		return "fetch_sections"
	case ProcessSection:
		return "process_section"
	case ProcessBatch:
		return "process_batch"
	case ProcessCollections:
		return "process_collections"
	default:
		return ""
	}
}

func fetchSectionsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSections,
		Step:    1,
		Total:   1,
		Message: "Listing library sections...",
	}
}

func sectionUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessSection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Section: %s", step, total, title),
	}
}

func batchUpdate(mediaType models.MediaType, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessBatch,
		Step:    1,
		Total:   count,
		Message: fmt.Sprintf("Processing %d %s items...", count, mediaType),
	}
}

func collectionsUpdate(section string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessCollections,
		Step:    1,
		Total:   count,
		Message: fmt.Sprintf("Collections in %s: %d", section, count),
	}
}
