package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

// timeLayout is the date/time layout logcat prints for the time and
// threadtime formats. It carries no year.
const timeLayout = "01-02 15:04:05.000"

var (
	// brief/tag: I/ActivityManager: Starting activity
	// The real tool appends "(  PID)" to the tag in brief output; the pid
	// group is optional so both spellings parse.
	reBrief = regexp.MustCompile(`^([VDIWEF])/(.*?)(?:\(\s*(\d+)\))?:\s?(.*)$`)

	// process: I( 1234) Starting activity  (ActivityManager)
	reProcess = regexp.MustCompile(`^([VDIWEF])\(\s*(\d+)\)\s(.*?)(?:\s+\((\S+)\))?$`)

	// time: 01-02 03:04:05.678 I/ActivityManager( 1234): Starting activity
	reTime = regexp.MustCompile(`^(\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d{3})\s+([VDIWEF])/(.*?)\(\s*(\d+)\):\s?(.*)$`)

	// threadtime: 01-02 03:04:05.678 12345 12367 I ActivityManager: Starting activity
	reThreadtime = regexp.MustCompile(`^(\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d{3})\s+(\d+)\s+(\d+)\s+([VDIWEF])\s+(.*?):\s?(.*)$`)
)

// Parse converts one raw line into a LogEntry according to the format.
// It is a pure function and total: malformed input never fails, it
// degrades to an Unknown-level entry with the full line as message.
func Parse(raw string, format model.LogFormat) model.LogEntry {
	switch format {
	case model.FormatBrief, model.FormatTag:
		return parseBrief(raw)
	case model.FormatProcess:
		return parseProcess(raw)
	case model.FormatTime:
		return parseTime(raw)
	case model.FormatThreadtime:
		return parseThreadtime(raw)
	default:
		// raw format, and anything unrecognized, keeps the line verbatim.
		return fallback(raw)
	}
}

// fallback returns the best-effort entry for an unparseable line.
func fallback(raw string) model.LogEntry {
	return model.LogEntry{
		Level:   model.LevelUnknown,
		PID:     model.NoPID,
		TID:     model.NoPID,
		Message: raw,
		Raw:     raw,
	}
}

func parseBrief(raw string) model.LogEntry {
	m := reBrief.FindStringSubmatch(raw)
	if m == nil {
		return fallback(raw)
	}
	entry := model.LogEntry{
		Level:   model.LevelFromCode(m[1][0]),
		PID:     model.NoPID,
		TID:     model.NoPID,
		Tag:     m[2],
		Message: m[4],
		Raw:     raw,
	}
	if m[3] != "" {
		entry.PID, _ = strconv.Atoi(m[3])
	}
	return entry
}

func parseProcess(raw string) model.LogEntry {
	m := reProcess.FindStringSubmatch(raw)
	if m == nil {
		return fallback(raw)
	}
	pid, _ := strconv.Atoi(m[2])
	return model.LogEntry{
		Level:   model.LevelFromCode(m[1][0]),
		PID:     pid,
		TID:     model.NoPID,
		Tag:     m[4],
		Message: m[3],
		Raw:     raw,
	}
}

func parseTime(raw string) model.LogEntry {
	m := reTime.FindStringSubmatch(raw)
	if m == nil {
		return fallback(raw)
	}
	pid, _ := strconv.Atoi(m[4])
	entry := model.LogEntry{
		Level:   model.LevelFromCode(m[2][0]),
		PID:     pid,
		TID:     model.NoPID,
		Tag:     m[3],
		Message: m[5],
		Raw:     raw,
	}
	// A shape-valid but impossible date (month 13 etc.) leaves the
	// timestamp absent while the remaining fields stand.
	if ts, err := time.Parse(timeLayout, m[1]); err == nil {
		entry.Timestamp = ts
	}
	return entry
}

func parseThreadtime(raw string) model.LogEntry {
	m := reThreadtime.FindStringSubmatch(raw)
	if m == nil {
		// pid and tid are both required for threadtime; anything short
		// of that is treated as a raw-mode line.
		return fallback(raw)
	}
	pid, _ := strconv.Atoi(m[2])
	tid, _ := strconv.Atoi(m[3])
	entry := model.LogEntry{
		Level:   model.LevelFromCode(m[4][0]),
		PID:     pid,
		TID:     tid,
		Tag:     m[5],
		Message: m[6],
		Raw:     raw,
	}
	if ts, err := time.Parse(timeLayout, m[1]); err == nil {
		entry.Timestamp = ts
	}
	return entry
}
