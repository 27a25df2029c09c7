package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava enforces 100 requests per 15 minutes and 1000 per day.
// Actual usage and limits arrive on every response in the
// X-RateLimit-Usage / X-RateLimit-Limit headers as "short,daily"
// pairs, so the limiter trusts the headers over its own counting.

// RateLimiter spaces requests and blocks when a budget is exhausted
type RateLimiter struct {
	mu sync.Mutex

	short rateWindow
	daily rateWindow

	minInterval time.Duration
	lastRequest time.Time
}

type rateWindow struct {
	limit    int
	usage    int
	resetsAt time.Time
	span     time.Duration
}

// NewRateLimiter creates a limiter with Strava's published limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short: rateWindow{limit: 100, resetsAt: now.Add(15 * time.Minute), span: 15 * time.Minute},
		daily: rateWindow{limit: 1000, resetsAt: now.Truncate(24 * time.Hour).Add(24 * time.Hour), span: 24 * time.Hour},
		minInterval: 150 * time.Millisecond,
	}
}

// Wait blocks until a request can be made without exceeding limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.short.maybeReset(now)
	r.daily.maybeReset(now)

	for _, w := range []*rateWindow{&r.short, &r.daily} {
		if w.usage >= w.limit {
			if err := r.sleep(ctx, time.Until(w.resetsAt)); err != nil {
				return err
			}
			w.usage = 0
			w.resetsAt = time.Now().Add(w.span)
		}
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()
	return nil
}

// sleep releases the lock while waiting so header updates can land
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders syncs limiter state with Strava's response headers
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := splitPair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage = short
		r.daily.usage = daily
	}
	if short, daily, ok := splitPair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

// Remaining returns the unused request budget per window
func (r *RateLimiter) Remaining() (short, daily int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}

func (w *rateWindow) maybeReset(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = now.Add(w.span)
	}
}

// splitPair parses a "short,daily" header value
func splitPair(v string) (short, daily int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	short, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	daily, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return short, daily, true
}
