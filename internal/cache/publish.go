package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voyagen/streamcheck/internal/models"
)

// QueuePrefix prefixes the per-run list of valid entries.
const QueuePrefix = "streamcheck:valid:"

// QueueKey is the list key for a run.
func QueueKey(runID string) string { return QueuePrefix + runID }

// Publisher pushes valid entries onto a Redis list for other consumers.
type Publisher struct {
	r     *Redis
	queue string
}

// NewPublisher returns a Publisher writing to queue.
func NewPublisher(r *Redis, queue string) *Publisher {
	return &Publisher{r: r, queue: queue}
}

// Queue is the list key entries are pushed to.
func (p *Publisher) Queue() string { return p.queue }

// Put implements output.Sink: it pushes e onto the left side of the list.
func (p *Publisher) Put(ctx context.Context, e models.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("queue marshal: %w", err)
	}
	if err := p.r.client.LPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("queue push %s: %w", p.queue, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (p *Publisher) Close() error { return nil }

// Dequeue blocks until an entry is available on the right side of the list or the timeout
// expires. On timeout (nil, nil) is returned so the caller can loop.
func Dequeue(ctx context.Context, r *Redis, queue string, timeout time.Duration) (*models.Entry, error) {
	result, err := r.client.BRPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("queue dequeue: %w", err)
	}
	// BRPop returns [key, value].
	if len(result) < 2 {
		return nil, nil
	}
	var e models.Entry
	if err := json.Unmarshal([]byte(result[1]), &e); err != nil {
		return nil, fmt.Errorf("queue unmarshal: %w", err)
	}
	return &e, nil
}
