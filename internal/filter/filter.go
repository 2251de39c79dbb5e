package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

// Spec describes the active filter criteria. The zero value matches
// every entry. Specs are immutable once compiled; the session swaps the
// compiled filter atomically.
type Spec struct {
	Levels        []model.Level // empty = all levels
	Tag           string        // "" = any tag; exact, case-sensitive
	PID           *int          // nil = any pid; pid 0 is a valid target
	Text          string        // "" = any message
	UseRegex      bool
	CaseSensitive bool
}

// Filter is a compiled Spec. The text regex is compiled once here, not
// per entry.
type Filter struct {
	spec   Spec
	levels map[model.Level]bool
	re     *regexp.Regexp
	needle string // pre-folded substring when not regex
}

// Compile validates a Spec and prepares it for matching. An invalid
// regex pattern is the only failure.
func Compile(spec Spec) (*Filter, error) {
	f := &Filter{spec: spec}

	if len(spec.Levels) > 0 {
		f.levels = make(map[model.Level]bool, len(spec.Levels))
		for _, l := range spec.Levels {
			f.levels[l] = true
		}
	}

	if spec.Text != "" {
		if spec.UseRegex {
			pattern := spec.Text
			if !spec.CaseSensitive {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern %q: %w", spec.Text, err)
			}
			f.re = re
		} else {
			f.needle = spec.Text
			if !spec.CaseSensitive {
				f.needle = strings.ToLower(spec.Text)
			}
		}
	}

	return f, nil
}

// MustCompile is Compile for specs known to be valid, e.g. the zero spec.
func MustCompile(spec Spec) *Filter {
	f, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return f
}

// Spec returns the spec this filter was compiled from.
func (f *Filter) Spec() Spec { return f.spec }

// Matches reports whether the entry passes every clause. Clauses
// short-circuit cheapest first: levels, pid, tag, then text.
func (f *Filter) Matches(entry model.LogEntry) bool {
	if f.levels != nil && !f.levels[entry.Level] {
		return false
	}
	if f.spec.PID != nil && entry.PID != *f.spec.PID {
		return false
	}
	if f.spec.Tag != "" && entry.Tag != f.spec.Tag {
		return false
	}
	if f.re != nil {
		return f.re.MatchString(entry.Message)
	}
	if f.needle != "" {
		haystack := entry.Message
		if !f.spec.CaseSensitive {
			haystack = strings.ToLower(haystack)
		}
		return strings.Contains(haystack, f.needle)
	}
	return true
}

// Describe renders the spec for export headers and diagnostics.
func (f *Filter) Describe() string {
	var parts []string
	if len(f.spec.Levels) > 0 {
		codes := make([]string, len(f.spec.Levels))
		for i, l := range f.spec.Levels {
			codes[i] = l.Code()
		}
		parts = append(parts, "levels="+strings.Join(codes, ","))
	}
	if f.spec.Tag != "" {
		parts = append(parts, "tag="+f.spec.Tag)
	}
	if f.spec.PID != nil {
		parts = append(parts, fmt.Sprintf("pid=%d", *f.spec.PID))
	}
	if f.spec.Text != "" {
		kind := "text"
		if f.spec.UseRegex {
			kind = "regex"
		}
		parts = append(parts, fmt.Sprintf("%s=%q", kind, f.spec.Text))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
