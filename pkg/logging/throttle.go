package logging

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle keeps one token-bucket limiter per key so messages that repeat
// every tick do not flood the log.
type Throttle struct {
	limit   rate.Limit
	burst   int
	window  time.Duration
	keys    map[string]*keyLimiter
	mu      sync.Mutex
	sweeper *time.Ticker
	done    chan struct{}
	once    sync.Once
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows up to burst messages per key in each window
func NewThrottle(burst int, window time.Duration) *Throttle {
	if burst < 1 {
		burst = 1
	}
	t := &Throttle{
		limit:  rate.Every(window / time.Duration(burst)),
		burst:  burst,
		window: window,
		keys:   make(map[string]*keyLimiter),
		done:   make(chan struct{}),
	}

	t.sweeper = time.NewTicker(window)
	go t.sweep()

	return t
}

// Allow reports whether a message for key may be logged now
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	k, exists := t.keys[key]
	if !exists {
		k = &keyLimiter{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.keys[key] = k
	}
	k.lastSeen = time.Now()
	t.mu.Unlock()

	return k.limiter.Allow()
}

// sweep drops keys that have been quiet for two windows
func (t *Throttle) sweep() {
	for {
		select {
		case <-t.sweeper.C:
			cutoff := time.Now().Add(-2 * t.window)
			t.mu.Lock()
			for key, k := range t.keys {
				if k.lastSeen.Before(cutoff) {
					delete(t.keys, key)
				}
			}
			t.mu.Unlock()
		case <-t.done:
			return
		}
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (t *Throttle) Close() {
	t.once.Do(func() {
		close(t.done)
		t.sweeper.Stop()
	})
}

// DebugThrottled logs at debug level when throttle allows key
func (l *Logger) DebugThrottled(ctx context.Context, t *Throttle, key, msg string, args ...any) {
	if t == nil || t.Allow(key) {
		l.Debug(ctx, msg, args...)
	}
}
