// Package stats computes live capture metrics from a session
// subscription: totals, per-level counts, and a short-window rate, the
// figures the capture status line shows.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/nitr-himanshu/adb-util/internal/session"
)

const rateWindow = 5 * time.Second

// Stats is a point-in-time snapshot of capture metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	TotalEntries int64            `json:"total_entries"`
	PerSecond    float64          `json:"per_second"`
	LevelCounts  map[string]int64 `json:"level_counts"`
	Dropped      int64            `json:"dropped"`
	Buffered     int              `json:"buffered"`
}

// Collector consumes a session subscription and aggregates metrics.
type Collector struct {
	mu          sync.RWMutex
	startTime   time.Time
	total       int64
	levelCounts map[string]int64
	window      []time.Time
	sess        *session.Session
	events      <-chan session.Event
}

// New creates a Collector over its own subscription to the session.
func New(sess *session.Session) *Collector {
	return &Collector{
		startTime:   time.Now(),
		levelCounts: make(map[string]int64),
		sess:        sess,
		events:      sess.Subscribe(),
	}
}

// Snapshot returns the current metrics.
func (c *Collector) Snapshot() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[string]int64, len(c.levelCounts))
	for k, v := range c.levelCounts {
		counts[k] = v
	}

	cutoff := time.Now().Add(-rateWindow)
	var recent int
	for _, t := range c.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:       time.Since(c.startTime).Truncate(time.Second).String(),
		TotalEntries: c.total,
		PerSecond:    float64(recent) / rateWindow.Seconds(),
		LevelCounts:  counts,
		Dropped:      c.sess.Dropped(),
		Buffered:     c.sess.Len(),
	}
}

// Start consumes events until the subscription closes or the context is
// cancelled.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			if ev.Kind == session.EventEntries {
				c.record(ev)
			}
		case <-ticker.C:
			c.prune()
		}
	}
}

func (c *Collector) record(ev session.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.total += int64(len(ev.Entries))
	for _, e := range ev.Entries {
		c.levelCounts[e.Level.String()]++
		c.window = append(c.window, now)
	}
}

// prune drops rate-window timestamps that have aged out.
func (c *Collector) prune() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-rateWindow)
	i := 0
	for _, t := range c.window {
		if t.After(cutoff) {
			c.window[i] = t
			i++
		}
	}
	c.window = c.window[:i]
}
