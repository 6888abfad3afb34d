// Package pipeline fans entries out to concurrent probes and fans valid ones back in.
package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/voyagen/streamcheck/internal/metrics"
	"github.com/voyagen/streamcheck/internal/models"
)

const resultBuffer = 1024

// Checker probes one entry. Failures are reported in the Result, never as a panic or error.
type Checker interface {
	Probe(ctx context.Context, e models.Entry) models.Result
}

// Dispatcher runs one probe task per entry, at most Limit at a time.
type Dispatcher struct {
	checker  Checker
	limit    int
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	progress *Progress
}

// NewDispatcher creates a Dispatcher. limit <= 0 lets every entry be in flight at once.
// m may be nil.
func NewDispatcher(c Checker, limit int, log logrus.FieldLogger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		checker:  c,
		limit:    limit,
		log:      log,
		metrics:  m,
		progress: &Progress{},
	}
}

// Progress exposes live counters for the current run.
func (d *Dispatcher) Progress() *Progress { return d.progress }

// Run starts probing entries and returns the channel of valid ones in completion order.
// The channel is closed once every probe has finished, whatever their outcomes. The caller
// must drain it; probes block on send until it does.
func (d *Dispatcher) Run(ctx context.Context, entries []models.Entry) <-chan models.Entry {
	out := make(chan models.Entry, resultBuffer)
	d.progress.total.Add(int64(len(entries)))

	go func() {
		defer close(out)

		var g errgroup.Group
		if d.limit > 0 {
			g.SetLimit(d.limit)
		}
		for _, e := range entries {
			g.Go(func() error {
				d.validate(ctx, e, out)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

// validate probes e and sends it on out only when valid.
func (d *Dispatcher) validate(ctx context.Context, e models.Entry, out chan<- models.Entry) {
	var res models.Result
	if d.metrics != nil {
		done := d.metrics.ProbeStarted()
		res = d.checker.Probe(ctx, e)
		done()
		d.metrics.ObserveResult(res)
	} else {
		res = d.checker.Probe(ctx, e)
	}
	d.progress.record(res)

	if res.Valid {
		out <- e
		return
	}

	fields := logrus.Fields{"url": e.URL, "reason": res.Reason}
	if res.StatusCode != 0 {
		fields["status"] = res.StatusCode
	}
	l := d.log.WithFields(fields)
	if res.Err != nil {
		l = l.WithError(res.Err)
	}
	l.Warn("invalid")
}
