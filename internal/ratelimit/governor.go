package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/Kash1r/league-data-collector/internal/constants"
)

// Window is one request budget: at most Limit permits inside any rolling
// interval of Span.
type Window struct {
	Limit int
	Span  time.Duration
}

type window struct {
	limit  int
	span   time.Duration
	grants []time.Time
}

// prune drops grant timestamps that have left the window.
func (w *window) prune(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(w.grants) && !w.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.grants = append(w.grants[:0], w.grants[i:]...)
	}
}

// wait reports how long until the oldest grant leaves the window. Only
// meaningful when the window is full.
func (w *window) wait(now time.Time) time.Duration {
	return w.grants[0].Add(w.span).Sub(now)
}

// Governor grants request permits against two independent rolling windows.
// A permit is granted only when both windows have room; permits are never
// returned, budgets regenerate purely by time passing.
type Governor struct {
	mu      sync.Mutex
	windows []*window
	now     func() time.Time
}

func NewGovernor(windows ...Window) *Governor {
	g := &Governor{now: time.Now}
	for _, w := range windows {
		g.windows = append(g.windows, &window{
			limit:  w.Limit,
			span:   w.Span,
			grants: make([]time.Time, 0, w.Limit),
		})
	}
	return g
}

// NewRiotGovernor returns a governor tuned to the Riot development budgets:
// 20 requests per second and 100 requests per two minutes.
func NewRiotGovernor() *Governor {
	return NewGovernor(
		Window{Limit: constants.ShortWindowLimit, Span: constants.ShortWindowSpan},
		Window{Limit: constants.LongWindowLimit, Span: constants.LongWindowSpan},
	)
}

// Acquire blocks until every window has capacity, then records the grant in
// all of them. Safe for concurrent callers; returns early only when ctx is
// done.
func (g *Governor) Acquire(ctx context.Context) error {
	for {
		wait, ok := g.tryAcquire()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire grants a permit if every window has room. Otherwise it returns
// the time until the binding window frees its earliest-expiring grant.
func (g *Governor) tryAcquire() (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	var wait time.Duration
	ok := true
	for _, w := range g.windows {
		w.prune(now)
		if len(w.grants) >= w.limit {
			ok = false
			if d := w.wait(now); d > wait {
				wait = d
			}
		}
	}
	if !ok {
		if wait <= 0 {
			wait = time.Millisecond
		}
		return wait, false
	}

	for _, w := range g.windows {
		w.grants = append(w.grants, now)
	}
	return 0, true
}

// InFlight reports the number of grants currently inside each window, in
// constructor order.
func (g *Governor) InFlight() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	counts := make([]int, len(g.windows))
	for i, w := range g.windows {
		w.prune(now)
		counts[i] = len(w.grants)
	}
	return counts
}
