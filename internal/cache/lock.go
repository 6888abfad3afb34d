package cache

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrLocked is returned by TryLock when another run holds the lock.
var ErrLocked = errors.New("lock is already held")

const (
	releaseScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		end
		return 0
	`
	extendScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		end
		return 0
	`
)

// Lock is a held SET NX lock. Only the holder's token can extend or release it.
type Lock struct {
	r     *Redis
	key   string
	token string
	ttl   time.Duration
}

// OutputLockKey is the lock key for an output file path.
func OutputLockKey(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	return "streamcheck:lock:" + hex.EncodeToString(sum[:8])
}

// TryLock acquires key for ttl. If it is already held, ErrLocked is returned.
func TryLock(ctx context.Context, r *Redis, key string, ttl time.Duration) (*Lock, error) {
	token := randomToken()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("cache lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{r: r, key: key, token: token, ttl: ttl}, nil
}

// Extend resets the TTL if the lock is still ours.
func (l *Lock) Extend(ctx context.Context) error {
	n, err := l.r.client.Eval(ctx, extendScript, []string{l.key}, l.token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("cache extend %s: %w", l.key, err)
	}
	if n == 0 {
		return fmt.Errorf("cache extend %s: lock lost", l.key)
	}
	return nil
}

// KeepAlive extends the lock every ttl/2 until ctx is done.
func (l *Lock) KeepAlive(ctx context.Context, onErr func(error)) {
	t := time.NewTicker(l.ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := l.Extend(ctx); err != nil && ctx.Err() == nil {
				onErr(err)
			}
		}
	}
}

// Release deletes the key if the token still matches.
func (l *Lock) Release() {
	// Background context so release works after the run context is gone.
	_ = l.r.client.Eval(context.Background(), releaseScript, []string{l.key}, l.token).Err()
}

// IsLocked returns true if the lock key exists.
func IsLocked(ctx context.Context, r *Redis, key string) bool {
	n, _ := r.client.Exists(ctx, key).Result()
	return n > 0
}

func randomToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
