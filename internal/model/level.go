package model

import "strings"

// Level is the severity of a log entry. Levels are totally ordered
// Verbose < Debug < Info < Warning < Error < Fatal; Unknown sits outside
// the order and is assigned to unparseable lines.
type Level int

const (
	LevelUnknown Level = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

// levelCodes maps logcat single-letter codes to levels, per the tool's
// V,D,I,W,E,F convention.
var levelCodes = map[byte]Level{
	'V': LevelVerbose,
	'D': LevelDebug,
	'I': LevelInfo,
	'W': LevelWarning,
	'E': LevelError,
	'F': LevelFatal,
}

// LevelFromCode maps a single-letter logcat level code to a Level.
// Unrecognized codes yield LevelUnknown.
func LevelFromCode(c byte) Level {
	if l, ok := levelCodes[c]; ok {
		return l
	}
	return LevelUnknown
}

// ParseLevel maps a level name or single-letter code to a Level.
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return LevelFromCode(s[0] &^ 0x20) // fold to upper case
	}
	switch strings.ToUpper(s) {
	case "VERBOSE":
		return LevelVerbose
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelUnknown
	}
}

// Code returns the single-letter logcat code for the level.
// Unknown renders as "?" which no parser produces.
func (l Level) Code() string {
	switch l {
	case LevelVerbose:
		return "V"
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarning:
		return "W"
	case LevelError:
		return "E"
	case LevelFatal:
		return "F"
	default:
		return "?"
	}
}

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "Verbose"
	case LevelDebug:
		return "Debug"
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	case LevelFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}
