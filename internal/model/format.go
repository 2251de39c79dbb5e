package model

import "fmt"

// LogFormat selects the output grammar the log source was started with.
// It is fixed for the lifetime of a session.
type LogFormat string

const (
	FormatBrief      LogFormat = "brief"
	FormatProcess    LogFormat = "process"
	FormatTag        LogFormat = "tag"
	FormatRaw        LogFormat = "raw"
	FormatTime       LogFormat = "time"
	FormatThreadtime LogFormat = "threadtime"
	FormatLong       LogFormat = "long"
)

// Formats lists every supported log format.
var Formats = []LogFormat{
	FormatBrief, FormatProcess, FormatTag, FormatRaw,
	FormatTime, FormatThreadtime, FormatLong,
}

// ParseFormat validates a format name.
func ParseFormat(s string) (LogFormat, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

func (f LogFormat) String() string { return string(f) }

// Multiline reports whether the format emits multi-line blocks that need
// accumulation before parsing.
func (f LogFormat) Multiline() bool { return f == FormatLong }
