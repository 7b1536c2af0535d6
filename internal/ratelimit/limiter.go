// Package ratelimit implements the QueuedRateLimiter: a token-bucket rate
// cap and a concurrency cap per provider, with a strict FIFO waiting queue
// (§4.1). x/time/rate supplies the fractional-token refill math; this
// package adds the queue and the concurrency semaphore x/time/rate doesn't
// have on its own.
package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Stats is a point-in-time, best-effort snapshot of limiter state (§4.1).
type Stats struct {
	QueueLength     int
	ActiveRequests  int
	AvailableTokens int
}

// Limiter enforces a token-bucket rate and a concurrency cap over callable
// units of work submitted via Execute. Waiters are dispatched in strict
// FIFO order of Execute entry — head-of-line blocking is by design.
type Limiter struct {
	name string

	mu            sync.Mutex
	bucket        *rate.Limiter
	maxConcurrent int
	active        int
	waiters       *list.List // of *waiter, FIFO

	now func() time.Time
}

type waiter struct {
	admit chan struct{}
}

// New creates a Limiter with the given token-bucket rate (maxTokens tokens
// refilled continuously over timeWindow) and concurrency cap.
func New(name string, maxTokens int, timeWindow time.Duration, maxConcurrent int) *Limiter {
	refillPerSec := float64(maxTokens) / timeWindow.Seconds()
	return &Limiter{
		name:          name,
		bucket:        rate.NewLimiter(rate.Limit(refillPerSec), maxTokens),
		maxConcurrent: maxConcurrent,
		waiters:       list.New(),
		now:           time.Now,
	}
}

// Name returns the limiter's owning provider name, for observability.
func (l *Limiter) Name() string {
	return l.name
}

// Execute runs fn once admission is granted under both the rate and
// concurrency constraints, in strict FIFO order relative to other Execute
// calls on this limiter. It propagates exactly fn's result or error —
// Execute never swallows, retries, or transforms fn's outcome.
//
// If ctx is cancelled before admission, Execute returns ctx.Err() without
// running fn and without consuming a token or a concurrency slot. Once fn
// has started, cancellation of ctx does not abort it (§5) — Execute waits
// for fn to return so the concurrency slot can be released deterministically.
func Execute[T any](ctx context.Context, l *Limiter, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	w := &waiter{admit: make(chan struct{})}
	l.enqueue(w)

	select {
	case <-w.admit:
		// Fall through: we're at the head and admitted.
	case <-ctx.Done():
		if l.removeIfQueued(w) {
			// Genuinely cancelled before admission: no token or slot was
			// ever consumed on w's behalf.
			return zero, ctx.Err()
		}
		// Raced with pump() admitting w right as ctx was cancelled. The
		// token/slot is already spent, so per §5 the run proceeds to
		// completion (fn will likely fail fast on the cancelled ctx) and
		// the slot releases normally below.
	}

	defer l.release()

	val, err := fn(ctx)
	return val, err
}

func (l *Limiter) enqueue(w *waiter) {
	l.mu.Lock()
	l.waiters.PushBack(w)
	l.mu.Unlock()
	l.pump()
}

// removeIfQueued removes w from the queue and reports true if it was still
// waiting (never admitted). If pump() already admitted w — removing it from
// the queue and closing w.admit — this returns false.
func (l *Limiter) removeIfQueued(w *waiter) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for e := l.waiters.Front(); e != nil; e = e.Next() {
		if e.Value.(*waiter) == w {
			l.waiters.Remove(e)
			return true
		}
	}
	return false
}

func (l *Limiter) release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	l.pump()
}

// pump admits as many head-of-queue waiters as current tokens and free
// concurrency slots allow, without skipping ahead (head-of-line blocking).
// If the head waiter cannot yet admit, pump schedules a re-evaluation after
// the minimum wait for one more token, per §4.1's "no busy loop" rule.
func (l *Limiter) pump() {
	for {
		l.mu.Lock()
		front := l.waiters.Front()
		if front == nil {
			l.mu.Unlock()
			return
		}
		if l.active >= l.maxConcurrent {
			l.mu.Unlock()
			return
		}

		res := l.bucket.ReserveN(l.now(), 1)
		if !res.OK() {
			// Token bucket burst is smaller than 1 — should not happen with
			// maxTokens >= 1, but fail safe by not admitting.
			l.mu.Unlock()
			return
		}
		delay := res.DelayFrom(l.now())
		if delay > 0 {
			res.Cancel()
			l.mu.Unlock()
			time.AfterFunc(delay, l.pump)
			return
		}

		// Admit the head waiter: consume its queue slot and a concurrency slot.
		l.waiters.Remove(front)
		l.active++
		w := front.Value.(*waiter)
		l.mu.Unlock()

		close(w.admit)
		// Loop again in case more waiters can be admitted immediately
		// (e.g. burst capacity > 1 token available at once).
	}
}

// Stats returns a best-effort, point-in-time snapshot (§4.1).
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	tokens := l.bucket.TokensAt(l.now())
	if tokens < 0 {
		tokens = 0
	}
	return Stats{
		QueueLength:     l.waiters.Len(),
		ActiveRequests:  l.active,
		AvailableTokens: int(tokens),
	}
}
