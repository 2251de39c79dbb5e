package filter

import (
	"strings"
	"testing"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

func entry(level model.Level, tag string, pid int, msg string) model.LogEntry {
	return model.LogEntry{Level: level, Tag: tag, PID: pid, TID: model.NoPID, Message: msg, Raw: msg}
}

func pidRef(v int) *int { return &v }

func TestEmptySpecMatchesEverything(t *testing.T) {
	f := MustCompile(Spec{})

	entries := []model.LogEntry{
		entry(model.LevelVerbose, "A", 1, "hello"),
		entry(model.LevelUnknown, "", model.NoPID, "garbage"),
		entry(model.LevelFatal, "B", 999, ""),
	}
	for _, e := range entries {
		if !f.Matches(e) {
			t.Errorf("empty spec should match %+v", e)
		}
	}
}

func TestLevelSet(t *testing.T) {
	f := MustCompile(Spec{Levels: []model.Level{model.LevelError, model.LevelFatal}})

	if !f.Matches(entry(model.LevelError, "T", 1, "boom")) {
		t.Error("Error entry should pass")
	}
	if !f.Matches(entry(model.LevelFatal, "T", 1, "dead")) {
		t.Error("Fatal entry should pass")
	}
	if f.Matches(entry(model.LevelInfo, "T", 1, "fine")) {
		t.Error("Info entry should be dropped")
	}
	if f.Matches(entry(model.LevelUnknown, "T", 1, "??")) {
		t.Error("Unknown entry should be dropped when levels are set")
	}
}

func TestTagExactCaseSensitive(t *testing.T) {
	f := MustCompile(Spec{Tag: "ActivityManager"})

	if !f.Matches(entry(model.LevelInfo, "ActivityManager", 1, "ok")) {
		t.Error("exact tag should pass")
	}
	if f.Matches(entry(model.LevelInfo, "activitymanager", 1, "ok")) {
		t.Error("tag match must be case-sensitive")
	}
	if f.Matches(entry(model.LevelInfo, "ActivityManagerX", 1, "ok")) {
		t.Error("tag match must be exact, not prefix")
	}
}

func TestPIDEquality(t *testing.T) {
	f := MustCompile(Spec{PID: pidRef(42)})

	if !f.Matches(entry(model.LevelInfo, "T", 42, "ok")) {
		t.Error("matching pid should pass")
	}
	if f.Matches(entry(model.LevelInfo, "T", 43, "ok")) {
		t.Error("other pid should be dropped")
	}
	if f.Matches(entry(model.LevelInfo, "T", model.NoPID, "ok")) {
		t.Error("absent pid should be dropped when pid filter is set")
	}
}

func TestPIDZeroIsFilterable(t *testing.T) {
	f := MustCompile(Spec{PID: pidRef(0)})

	if !f.Matches(entry(model.LevelInfo, "kernel", 0, "ok")) {
		t.Error("pid 0 filter should match pid 0 entries")
	}
	if f.Matches(entry(model.LevelInfo, "kernel", 1, "ok")) {
		t.Error("pid 0 filter should drop other pids")
	}
	if !strings.Contains(f.Describe(), "pid=0") {
		t.Errorf("description %q missing pid=0", f.Describe())
	}
}

func TestSubstringCaseFolding(t *testing.T) {
	f := MustCompile(Spec{Text: "Connection"})

	if !f.Matches(entry(model.LevelInfo, "T", 1, "connection refused")) {
		t.Error("case-insensitive substring should match")
	}

	cs := MustCompile(Spec{Text: "Connection", CaseSensitive: true})
	if cs.Matches(entry(model.LevelInfo, "T", 1, "connection refused")) {
		t.Error("case-sensitive substring should not match different case")
	}
	if !cs.Matches(entry(model.LevelInfo, "T", 1, "Connection refused")) {
		t.Error("case-sensitive substring should match same case")
	}
}

func TestRegexPattern(t *testing.T) {
	f, err := Compile(Spec{Text: `activity \d+`, UseRegex: true})
	if err != nil {
		t.Fatal(err)
	}

	if !f.Matches(entry(model.LevelInfo, "T", 1, "starting Activity 17")) {
		t.Error("regex should match case-insensitively by default")
	}
	if f.Matches(entry(model.LevelInfo, "T", 1, "starting activity now")) {
		t.Error("regex should reject non-matching message")
	}
}

func TestInvalidRegex(t *testing.T) {
	if _, err := Compile(Spec{Text: "([", UseRegex: true}); err == nil {
		t.Fatal("expected error for uncompilable pattern")
	}
}

func TestMatchesIsDeterministic(t *testing.T) {
	f := MustCompile(Spec{Levels: []model.Level{model.LevelInfo}, Text: "boot"})
	e := entry(model.LevelInfo, "T", 1, "boot completed")

	first := f.Matches(e)
	for i := 0; i < 100; i++ {
		if f.Matches(e) != first {
			t.Fatal("repeated evaluation changed result")
		}
	}
}

func TestDescribe(t *testing.T) {
	f := MustCompile(Spec{
		Levels: []model.Level{model.LevelError, model.LevelFatal},
		Tag:    "Bluetooth",
		PID:    pidRef(7),
		Text:   "fail",
	})

	desc := f.Describe()
	for _, want := range []string{"levels=E,F", "tag=Bluetooth", "pid=7", `text="fail"`} {
		if !strings.Contains(desc, want) {
			t.Errorf("description %q missing %q", desc, want)
		}
	}

	if MustCompile(Spec{}).Describe() != "none" {
		t.Error("empty spec should describe as none")
	}
}
