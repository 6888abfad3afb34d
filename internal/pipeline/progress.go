package pipeline

import (
	"sync/atomic"

	"github.com/voyagen/streamcheck/internal/models"
)

// Progress counts probe outcomes; safe for concurrent use.
type Progress struct {
	total   atomic.Int64
	valid   atomic.Int64
	invalid atomic.Int64
}

// Snapshot is a point-in-time copy of Progress.
type Snapshot struct {
	Total   int64 `json:"total"`
	Done    int64 `json:"done"`
	Valid   int64 `json:"valid"`
	Invalid int64 `json:"invalid"`
}

func (p *Progress) record(r models.Result) {
	if r.Valid {
		p.valid.Add(1)
	} else {
		p.invalid.Add(1)
	}
}

// Snapshot returns the current counts.
func (p *Progress) Snapshot() Snapshot {
	valid, invalid := p.valid.Load(), p.invalid.Load()
	return Snapshot{
		Total:   p.total.Load(),
		Done:    valid + invalid,
		Valid:   valid,
		Invalid: invalid,
	}
}
