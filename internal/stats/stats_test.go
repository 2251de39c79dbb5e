package stats

import (
	"context"
	"testing"
	"time"

	"github.com/nitr-himanshu/adb-util/internal/model"
	"github.com/nitr-himanshu/adb-util/internal/session"
	"github.com/nitr-himanshu/adb-util/internal/source"
)

func TestCollectorCounts(t *testing.T) {
	s := session.New(100)
	c := New(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collectorDone := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(collectorDone)
	}()

	if err := s.Start(source.NewSlice([]string{
		"I/App: one",
		"E/App: two",
		"I/App: three",
	}, 0), model.FormatBrief); err != nil {
		t.Fatal(err)
	}

	// Collector exits when the subscription closes at stream end.
	select {
	case <-collectorDone:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not finish")
	}

	got := c.Snapshot()
	if got.TotalEntries != 3 {
		t.Errorf("expected 3 total entries, got %d", got.TotalEntries)
	}
	if got.LevelCounts["Info"] != 2 {
		t.Errorf("expected 2 Info, got %d", got.LevelCounts["Info"])
	}
	if got.LevelCounts["Error"] != 1 {
		t.Errorf("expected 1 Error, got %d", got.LevelCounts["Error"])
	}
	if got.Buffered != 3 {
		t.Errorf("expected 3 buffered, got %d", got.Buffered)
	}
	if got.PerSecond <= 0 {
		t.Errorf("expected positive rate immediately after capture, got %f", got.PerSecond)
	}
}

func TestCollectorEmpty(t *testing.T) {
	s := session.New(10)
	c := New(s)

	got := c.Snapshot()
	if got.TotalEntries != 0 || got.Dropped != 0 || got.Buffered != 0 {
		t.Errorf("unexpected non-zero stats: %+v", got)
	}
	if len(got.LevelCounts) != 0 {
		t.Errorf("expected empty level counts, got %v", got.LevelCounts)
	}
}
