package parser

import (
	"testing"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

func TestParseBrief(t *testing.T) {
	entry := Parse("I/ActivityManager: Starting activity", model.FormatBrief)

	if entry.Level != model.LevelInfo {
		t.Errorf("expected Info, got %s", entry.Level)
	}
	if entry.Tag != "ActivityManager" {
		t.Errorf("expected tag ActivityManager, got %q", entry.Tag)
	}
	if entry.Message != "Starting activity" {
		t.Errorf("expected message 'Starting activity', got %q", entry.Message)
	}
	if entry.PID != model.NoPID {
		t.Errorf("expected no pid, got %d", entry.PID)
	}
}

func TestParseBriefWithPID(t *testing.T) {
	// Real logcat brief output carries the pid in parentheses.
	entry := Parse("E/AndroidRuntime(  345): FATAL EXCEPTION: main", model.FormatBrief)

	if entry.Level != model.LevelError {
		t.Errorf("expected Error, got %s", entry.Level)
	}
	if entry.Tag != "AndroidRuntime" {
		t.Errorf("expected tag AndroidRuntime, got %q", entry.Tag)
	}
	if entry.PID != 345 {
		t.Errorf("expected pid 345, got %d", entry.PID)
	}
	if entry.Message != "FATAL EXCEPTION: main" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseTagFormat(t *testing.T) {
	entry := Parse("W/WifiService: scan throttled", model.FormatTag)

	if entry.Level != model.LevelWarning {
		t.Errorf("expected Warning, got %s", entry.Level)
	}
	if entry.Tag != "WifiService" {
		t.Errorf("expected tag WifiService, got %q", entry.Tag)
	}
}

func TestParseProcess(t *testing.T) {
	entry := Parse("D( 1234) buffer queued  (SurfaceFlinger)", model.FormatProcess)

	if entry.Level != model.LevelDebug {
		t.Errorf("expected Debug, got %s", entry.Level)
	}
	if entry.PID != 1234 {
		t.Errorf("expected pid 1234, got %d", entry.PID)
	}
	if entry.Tag != "SurfaceFlinger" {
		t.Errorf("expected tag SurfaceFlinger, got %q", entry.Tag)
	}
	if entry.Message != "buffer queued" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseProcessNoTag(t *testing.T) {
	entry := Parse("I( 99) service ready", model.FormatProcess)

	if entry.PID != 99 {
		t.Errorf("expected pid 99, got %d", entry.PID)
	}
	if entry.Tag != "" {
		t.Errorf("expected empty tag, got %q", entry.Tag)
	}
	if entry.Message != "service ready" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseRaw(t *testing.T) {
	entry := Parse("anything at all", model.FormatRaw)

	if entry.Level != model.LevelUnknown {
		t.Errorf("expected Unknown, got %s", entry.Level)
	}
	if entry.Message != "anything at all" {
		t.Errorf("expected verbatim message, got %q", entry.Message)
	}
	if entry.Raw != "anything at all" {
		t.Errorf("expected verbatim raw, got %q", entry.Raw)
	}
}

func TestParseTime(t *testing.T) {
	entry := Parse("01-02 03:04:05.678 I/ActivityManager( 1234): Starting activity", model.FormatTime)

	if !entry.HasTimestamp() {
		t.Fatal("expected a parsed timestamp")
	}
	if entry.Timestamp.Hour() != 3 || entry.Timestamp.Second() != 5 {
		t.Errorf("unexpected timestamp %v", entry.Timestamp)
	}
	if entry.PID != 1234 {
		t.Errorf("expected pid 1234, got %d", entry.PID)
	}
	if entry.Tag != "ActivityManager" {
		t.Errorf("expected tag ActivityManager, got %q", entry.Tag)
	}
}

func TestParseTimeBadDate(t *testing.T) {
	// Shape matches but month 13 cannot parse; fields must still extract.
	entry := Parse("13-45 99:99:99.999 W/Zygote( 7): oddity", model.FormatTime)

	if entry.HasTimestamp() {
		t.Error("expected absent timestamp for impossible date")
	}
	if entry.Level != model.LevelWarning {
		t.Errorf("expected Warning, got %s", entry.Level)
	}
	if entry.Tag != "Zygote" {
		t.Errorf("expected tag Zygote, got %q", entry.Tag)
	}
	if entry.Message != "oddity" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseThreadtime(t *testing.T) {
	entry := Parse("01-02 03:04:05.678 12345 12367 I ActivityManager: Starting activity", model.FormatThreadtime)

	if entry.PID != 12345 {
		t.Errorf("expected pid 12345, got %d", entry.PID)
	}
	if entry.TID != 12367 {
		t.Errorf("expected tid 12367, got %d", entry.TID)
	}
	if entry.Level != model.LevelInfo {
		t.Errorf("expected Info, got %s", entry.Level)
	}
	if entry.Tag != "ActivityManager" {
		t.Errorf("expected tag ActivityManager, got %q", entry.Tag)
	}
	if entry.Message != "Starting activity" {
		t.Errorf("unexpected message %q", entry.Message)
	}
}

func TestParseThreadtimeMalformed(t *testing.T) {
	entry := Parse("garbage text", model.FormatThreadtime)

	if entry.Level != model.LevelUnknown {
		t.Errorf("expected Unknown, got %s", entry.Level)
	}
	if entry.Message != "garbage text" {
		t.Errorf("expected full line as message, got %q", entry.Message)
	}
	if entry.PID != model.NoPID || entry.TID != model.NoPID {
		t.Errorf("expected absent pid/tid, got %d/%d", entry.PID, entry.TID)
	}
}

func TestParseRawRoundTrip(t *testing.T) {
	lines := []string{
		"I/ActivityManager: Starting activity",
		"garbage text",
		"",
		"01-02 03:04:05.678 12345 12367 I ActivityManager: ok",
	}
	for _, line := range lines {
		for _, f := range model.Formats {
			if f == model.FormatLong {
				continue // long is block-oriented, see LongCollector tests
			}
			entry := Parse(line, f)
			if entry.Raw != line {
				t.Errorf("format %s: raw %q did not round-trip, got %q", f, line, entry.Raw)
			}
		}
	}
}

func TestLongCollector(t *testing.T) {
	var c LongCollector

	if _, ok := c.Feed("[ 01-02 03:04:05.678 12345:12367 E/AndroidRuntime ]"); ok {
		t.Fatal("header alone should not complete a block")
	}
	if _, ok := c.Feed("FATAL EXCEPTION: main"); ok {
		t.Fatal("message line should not complete a block")
	}
	if _, ok := c.Feed("java.lang.NullPointerException"); ok {
		t.Fatal("message line should not complete a block")
	}

	entry, ok := c.Feed("")
	if !ok {
		t.Fatal("blank line should close the block")
	}
	if entry.Level != model.LevelError {
		t.Errorf("expected Error, got %s", entry.Level)
	}
	if entry.PID != 12345 || entry.TID != 12367 {
		t.Errorf("unexpected pid/tid %d/%d", entry.PID, entry.TID)
	}
	if entry.Tag != "AndroidRuntime" {
		t.Errorf("expected tag AndroidRuntime, got %q", entry.Tag)
	}
	if entry.Message != "FATAL EXCEPTION: main\njava.lang.NullPointerException" {
		t.Errorf("unexpected joined message %q", entry.Message)
	}
	if entry.Raw == "" || entry.Raw == entry.Message {
		t.Errorf("raw should include the header, got %q", entry.Raw)
	}
}

func TestLongCollectorHeaderClosesPrevious(t *testing.T) {
	var c LongCollector

	c.Feed("[ 01-02 03:04:05.678 1:2 I/First ]")
	c.Feed("first message")

	entry, ok := c.Feed("[ 01-02 03:04:06.000 3:4 W/Second ]")
	if !ok {
		t.Fatal("next header should close the previous block")
	}
	if entry.Tag != "First" || entry.Message != "first message" {
		t.Errorf("unexpected entry %+v", entry)
	}

	c.Feed("second message")
	entry, ok = c.Flush()
	if !ok {
		t.Fatal("flush should emit the trailing block")
	}
	if entry.Tag != "Second" || entry.Level != model.LevelWarning {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestLongCollectorStrayLine(t *testing.T) {
	var c LongCollector

	entry, ok := c.Feed("noise outside any block")
	if !ok {
		t.Fatal("stray line should be emitted immediately")
	}
	if entry.Level != model.LevelUnknown || entry.Message != "noise outside any block" {
		t.Errorf("unexpected entry %+v", entry)
	}
}
