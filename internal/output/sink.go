// Package output delivers validated entries to their destinations.
package output

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/voyagen/streamcheck/internal/models"
)

// Sink receives valid entries in completion order.
type Sink interface {
	Put(ctx context.Context, e models.Entry) error
	Close() error
}

// Multi forwards each entry to every sink. A failing sink is logged and the others still
// receive the entry.
type Multi struct {
	sinks []Sink
	log   logrus.FieldLogger
}

// NewMulti combines sinks; nil sinks are dropped.
func NewMulti(log logrus.FieldLogger, sinks ...Sink) *Multi {
	m := &Multi{log: log}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Put implements Sink. It always returns nil.
func (m *Multi) Put(ctx context.Context, e models.Entry) error {
	for _, s := range m.sinks {
		if err := s.Put(ctx, e); err != nil {
			m.log.WithError(err).WithField("url", e.URL).Warn("sink write failed")
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
