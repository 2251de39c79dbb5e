package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

// long header: [ 01-02 03:04:05.678 12345:12367 I/ActivityManager ]
var reLongHeader = regexp.MustCompile(`^\[\s(\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d{3})\s+(\d+):\s*(\d+)\s([VDIWEF])/(.*?)\s\]$`)

// LongCollector accumulates the multi-line blocks of the long format.
// A block is a header line followed by message lines, terminated by a
// blank line or the next header. Feed one line at a time; a complete
// entry is returned once its block is closed. Call Flush at end of
// stream to emit a trailing unterminated block.
type LongCollector struct {
	active    bool
	timestamp time.Time
	pid, tid  int
	level     model.Level
	tag       string
	header    string
	lines     []string
}

// Feed processes one line and returns a completed entry, if any.
// Lines that arrive outside a block are emitted immediately as
// Unknown-level entries.
func (c *LongCollector) Feed(line string) (model.LogEntry, bool) {
	if m := reLongHeader.FindStringSubmatch(line); m != nil {
		done, ok := c.close()
		c.start(m, line)
		return done, ok
	}

	if !c.active {
		if strings.TrimSpace(line) == "" {
			return model.LogEntry{}, false
		}
		return fallback(line), true
	}

	if strings.TrimSpace(line) == "" {
		return c.close()
	}

	c.lines = append(c.lines, line)
	return model.LogEntry{}, false
}

// Flush closes and returns the block in progress, if any.
func (c *LongCollector) Flush() (model.LogEntry, bool) {
	return c.close()
}

func (c *LongCollector) start(m []string, line string) {
	c.active = true
	c.header = line
	c.lines = nil
	c.pid, _ = strconv.Atoi(m[2])
	c.tid, _ = strconv.Atoi(m[3])
	c.level = model.LevelFromCode(m[4][0])
	c.tag = m[5]
	c.timestamp = time.Time{}
	if ts, err := time.Parse(timeLayout, m[1]); err == nil {
		c.timestamp = ts
	}
}

// close emits the accumulated block. A header with no message lines
// yields nothing.
func (c *LongCollector) close() (model.LogEntry, bool) {
	if !c.active {
		return model.LogEntry{}, false
	}
	c.active = false
	if len(c.lines) == 0 {
		return model.LogEntry{}, false
	}
	entry := model.LogEntry{
		Timestamp: c.timestamp,
		Level:     c.level,
		PID:       c.pid,
		TID:       c.tid,
		Tag:       c.tag,
		Message:   strings.Join(c.lines, "\n"),
		Raw:       c.header + "\n" + strings.Join(c.lines, "\n"),
	}
	c.lines = nil
	return entry, true
}
