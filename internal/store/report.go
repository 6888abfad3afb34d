package store

import (
	"context"

	"github.com/voyagen/streamcheck/internal/models"
)

// ReportSink stores each valid entry of one run.
type ReportSink struct {
	store Store
	runID int64
}

// NewReportSink returns a sink bound to runID.
func NewReportSink(s Store, runID int64) *ReportSink {
	return &ReportSink{store: s, runID: runID}
}

// Put implements output.Sink.
func (r *ReportSink) Put(ctx context.Context, e models.Entry) error {
	return r.store.AddValidEntry(ctx, r.runID, e)
}

// Close is a no-op; the pool is owned by the caller.
func (r *ReportSink) Close() error { return nil }

// RunID is the run this sink writes to.
func (r *ReportSink) RunID() int64 { return r.runID }
