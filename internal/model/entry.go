package model

import "time"

// NoPID marks an absent process or thread id on a LogEntry.
const NoPID = -1

// LogEntry represents a single parsed logcat record.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp,omitempty"` // zero when the format carries no time
	Level     Level     `json:"level"`
	PID       int       `json:"pid"` // NoPID when absent
	TID       int       `json:"tid"` // NoPID when absent
	Tag       string    `json:"tag,omitempty"`
	Message   string    `json:"message"`
	Raw       string    `json:"raw"` // original line(s), always non-empty
}

// HasTimestamp reports whether the entry carries a parsed wall-clock time.
func (e LogEntry) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}
