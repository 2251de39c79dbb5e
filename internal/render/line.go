package render

import (
	"fmt"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

const timeLayout = "01-02 15:04:05.000"

// Line renders an entry in the given format's textual style, the
// inverse of the parser grammar. Absent fields render as their logcat
// placeholders (pid 0, zero timestamp), so an entry captured in one
// format can be exported in another.
func Line(e model.LogEntry, format model.LogFormat) string {
	switch format {
	case model.FormatBrief, model.FormatTag:
		return fmt.Sprintf("%s/%s: %s", e.Level.Code(), e.Tag, e.Message)
	case model.FormatProcess:
		return fmt.Sprintf("%s(%5d) %s  (%s)", e.Level.Code(), pid(e.PID), e.Message, e.Tag)
	case model.FormatTime:
		return fmt.Sprintf("%s %s/%s(%5d): %s", stamp(e), e.Level.Code(), e.Tag, pid(e.PID), e.Message)
	case model.FormatThreadtime:
		return fmt.Sprintf("%s %5d %5d %s %s: %s", stamp(e), pid(e.PID), pid(e.TID), e.Level.Code(), e.Tag, e.Message)
	case model.FormatLong:
		header := fmt.Sprintf("[ %s %d:%d %s/%s ]", stamp(e), pid(e.PID), pid(e.TID), e.Level.Code(), e.Tag)
		return header + "\n" + e.Message + "\n"
	default:
		return e.Raw
	}
}

func pid(v int) int {
	if v == model.NoPID {
		return 0
	}
	return v
}

func stamp(e model.LogEntry) string {
	if !e.HasTimestamp() {
		return "00-00 00:00:00.000"
	}
	return e.Timestamp.Format(timeLayout)
}
