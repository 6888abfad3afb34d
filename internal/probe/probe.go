// Package probe checks whether a stream URL answers.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/voyagen/streamcheck/internal/models"
)

// Prober sends a single HEAD request per entry. It holds no per-entry state and is safe for
// concurrent use.
type Prober struct {
	client    *http.Client
	userAgent string
}

// New creates a Prober whose requests give up after timeout. userAgent is optional.
func New(timeout time.Duration, userAgent string) *Prober {
	return &Prober{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Probe performs exactly one request against e.URL. A 2xx or 3xx response is valid; any other
// status, a timeout, or a transport failure is invalid. It never retries.
// Surrounding whitespace on the URL line is ignored for the request; the entry keeps it.
func (p *Prober) Probe(ctx context.Context, e models.Entry) models.Result {
	start := time.Now()
	res := models.Result{Entry: e}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, strings.TrimSpace(e.URL), nil)
	if err != nil {
		res.Reason = models.ReasonTransport
		res.Err = fmt.Errorf("NewRequest: %w", err)
		res.Duration = time.Since(start)
		return res
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Reason = classify(err)
		res.Err = err
		return res
	}
	resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		res.Valid = true
		res.Reason = models.ReasonOK
	} else {
		res.Reason = models.ReasonStatus
	}
	return res
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.ReasonTimeout
	}
	return models.ReasonTransport
}
