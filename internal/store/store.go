package store

import (
	"context"

	"github.com/voyagen/streamcheck/internal/models"
)

// Store records the outcome of check runs. It is write-only from the checker's point of view:
// nothing here is read back to skip or pre-judge probes in later runs.
type Store interface {
	// CreateRun inserts a run row and returns its id.
	CreateRun(ctx context.Context, inputDir, outputFile string) (int64, error)
	// AddValidEntry stores one validated entry for the run. Repeats of the same URL are ignored.
	AddValidEntry(ctx context.Context, runID int64, e models.Entry) error
	// FinishRun stamps finished_at and the final counts.
	FinishRun(ctx context.Context, runID int64, stats RunStats) error
}

// RunStats are the counts written when a run finishes.
type RunStats struct {
	Parsed  int
	Valid   int
	Invalid int
}
