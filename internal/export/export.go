// Package export serializes buffered log entries to a plain-text sink
// with a metadata header, deterministically for a given input.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/nitr-himanshu/adb-util/internal/model"
	"github.com/nitr-himanshu/adb-util/internal/render"
)

// Meta describes the export for the header block.
type Meta struct {
	Format     model.LogFormat // format the entries are rendered in
	ExportedAt time.Time
	Filter     string // human-readable active filter description
}

// Write emits the header followed by one rendered line per entry, in
// order. The writer error, if any, is returned as-is; callers map it to
// their failure taxonomy.
func Write(w io.Writer, meta Meta, entries []model.LogEntry) error {
	if err := writeHeader(w, meta, entries); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, render.Line(e, meta.Format)); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer, meta Meta, entries []model.LogEntry) error {
	first, last := timeRange(entries)
	_, err := fmt.Fprintf(w,
		"=== adb-util log export ===\n"+
			"format: %s\n"+
			"exported: %s\n"+
			"entries: %d\n"+
			"range: %s\n"+
			"filter: %s\n"+
			"===========================\n",
		meta.Format,
		meta.ExportedAt.Format(time.RFC3339),
		len(entries),
		first+" .. "+last,
		meta.Filter,
	)
	return err
}

// timeRange finds the first and last timestamped entries; formats
// without timestamps yield "-".
func timeRange(entries []model.LogEntry) (string, string) {
	const layout = "01-02 15:04:05.000"
	first, last := "-", "-"
	for _, e := range entries {
		if e.HasTimestamp() {
			first = e.Timestamp.Format(layout)
			break
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].HasTimestamp() {
			last = entries[i].Timestamp.Format(layout)
			break
		}
	}
	return first, last
}
