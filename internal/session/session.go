// Package session orchestrates one end-to-end log capture: a line
// source pumped through the parser and the active filter into a bounded
// ring buffer, with accepted entries fanned out to subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nitr-himanshu/adb-util/internal/buffer"
	"github.com/nitr-himanshu/adb-util/internal/export"
	"github.com/nitr-himanshu/adb-util/internal/filter"
	"github.com/nitr-himanshu/adb-util/internal/model"
	"github.com/nitr-himanshu/adb-util/internal/parser"
	"github.com/nitr-himanshu/adb-util/internal/source"
)

// State is the session lifecycle position.
type State int

const (
	Idle State = iota // no source attached
	Streaming         // pump running
	Stopped           // source closed, buffer retained
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Stopped:
		return "stopped"
	default:
		return "invalid"
	}
}

var (
	ErrAlreadyActive     = errors.New("session already active")
	ErrNotActive         = errors.New("session not active")
	ErrStreaming         = errors.New("session is streaming")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrInvalidPattern    = errors.New("invalid filter pattern")
	ErrExportFailed      = errors.New("export failed")
	ErrStreamInterrupted = errors.New("stream interrupted")
)

// EventKind discriminates subscriber notifications.
type EventKind int

const (
	EventEntries EventKind = iota // Entries carries accepted entries, in order
	EventEnded                    // stream stopped normally
	EventError                    // stream died; Err carries the cause
)

// Event is one subscriber notification. After a terminal event (Ended
// or Error) the channel is closed.
type Event struct {
	Kind    EventKind
	Entries []model.LogEntry
	Err     error
}

const subscriberBuffer = 1024

// Session owns one capture lifecycle. The buffer stores every parsed
// entry regardless of the active filter; filtering applies at delivery,
// snapshot, and export time, so a later filter change re-reads the full
// history.
type Session struct {
	mu          sync.Mutex
	state       State
	format      model.LogFormat
	src         source.LineSource
	cancel      context.CancelFunc
	done        chan struct{}
	subscribers []chan Event
	closed      bool // subscriber channels closed

	ring     *buffer.Ring
	fil      atomic.Pointer[filter.Filter]
	stopping atomic.Bool
	dropped  atomic.Int64
}

// New creates an idle session with the given buffer capacity.
// Non-positive capacities use the default.
func New(capacity int) *Session {
	s := &Session{ring: buffer.New(capacity)}
	s.fil.Store(filter.MustCompile(filter.Spec{}))
	return s
}

// Start attaches a source and begins pumping. Valid only from Idle.
func (s *Session) Start(src source.LineSource, format model.LogFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return fmt.Errorf("%w: state is %s", ErrAlreadyActive, s.state)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := src.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	s.src = src
	s.cancel = cancel
	s.format = format
	s.done = make(chan struct{})
	s.state = Streaming
	s.stopping.Store(false)

	go s.pump(src, format)
	return nil
}

// pump is the single goroutine moving lines from the source into the
// buffer and out to subscribers. It holds no lock while waiting on the
// source.
func (s *Session) pump(src source.LineSource, format model.LogFormat) {
	defer close(s.done)

	var collector *parser.LongCollector
	if format.Multiline() {
		collector = &parser.LongCollector{}
	}

	for line := range src.Lines() {
		if collector != nil {
			if entry, ok := collector.Feed(line); ok {
				s.accept(entry)
			}
			continue
		}
		if line == "" {
			continue
		}
		s.accept(parser.Parse(line, format))
	}
	if collector != nil {
		if entry, ok := collector.Flush(); ok {
			s.accept(entry)
		}
	}

	s.finish(src)
}

// accept stores an entry and delivers it to subscribers if it passes
// the active filter.
func (s *Session) accept(entry model.LogEntry) {
	s.ring.Append(entry)
	if s.fil.Load().Matches(entry) {
		s.broadcast(Event{Kind: EventEntries, Entries: []model.LogEntry{entry}})
	}
}

// finish runs once the source stream ends, for either reason.
func (s *Session) finish(src source.LineSource) {
	src.Close()

	s.mu.Lock()
	wasStopping := s.stopping.Load()
	if s.state == Streaming {
		s.state = Stopped
	}
	// Release the source context even when the stream ended on its own.
	s.cancel()
	s.mu.Unlock()

	if wasStopping {
		s.broadcast(Event{Kind: EventEnded})
	} else {
		err := ErrStreamInterrupted
		if cause := src.Err(); cause != nil {
			err = fmt.Errorf("%w: %v", ErrStreamInterrupted, cause)
		}
		s.broadcast(Event{Kind: EventError, Err: err})
	}

	s.closeSubscribers()
}

// Stop detaches the source. Valid from Streaming; a second Stop is a
// no-op. The pending source read unblocks promptly.
func (s *Session) Stop() error {
	s.mu.Lock()
	switch s.state {
	case Idle:
		s.mu.Unlock()
		return ErrNotActive
	case Stopped:
		s.mu.Unlock()
		return nil
	}
	s.stopping.Store(true)
	s.state = Stopped
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Clear empties the buffer and returns to Idle. Valid from Stopped or
// Idle; on an Idle session it is a no-op.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Streaming {
		return ErrStreaming
	}
	s.ring.Clear()
	s.src = nil
	// Subscribers registered before any stream ran are still open; let
	// them see end-of-stream instead of blocking forever.
	if !s.closed {
		for _, ch := range s.subscribers {
			close(ch)
		}
	}
	s.subscribers = nil
	s.closed = false
	s.state = Idle
	return nil
}

// SetFilter swaps the active filter atomically. An uncompilable regex
// rejects the new spec and keeps the previous filter in effect. Valid
// in any state.
func (s *Session) SetFilter(spec filter.Spec) error {
	f, err := filter.Compile(spec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	s.fil.Store(f)
	return nil
}

// Filter returns the active compiled filter.
func (s *Session) Filter() *filter.Filter { return s.fil.Load() }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Format returns the format the session was started with.
func (s *Session) Format() model.LogFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Len returns the number of buffered entries, before filtering.
func (s *Session) Len() int { return s.ring.Len() }

// Dropped returns entries dropped on slow subscriber channels.
func (s *Session) Dropped() int64 { return s.dropped.Load() }

// Snapshot returns the buffered entries that pass the active filter, in
// arrival order. The copy is taken point-in-time while the pump keeps
// running.
func (s *Session) Snapshot() []model.LogEntry {
	return filtered(s.ring.Snapshot(), s.fil.Load())
}

// Export writes the buffered entries, re-filtered by the override spec
// when given, to the destination in the requested format style. Valid
// from Streaming or Stopped. A failed destination leaves buffer and
// state untouched.
func (s *Session) Export(w io.Writer, format model.LogFormat, override *filter.Spec) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == Idle {
		return ErrNotActive
	}

	f := s.fil.Load()
	if override != nil {
		var err error
		if f, err = filter.Compile(*override); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}

	meta := export.Meta{
		Format:     format,
		ExportedAt: time.Now(),
		Filter:     f.Describe(),
	}
	if err := export.Write(w, meta, filtered(s.ring.Snapshot(), f)); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// ExportFile is Export to a file path.
func (s *Session) ExportFile(path string, format model.LogFormat, override *filter.Spec) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	defer file.Close()
	return s.Export(file, format, override)
}

// Subscribe registers a consumer of accepted entries. The channel
// carries entry events followed by one terminal event, then closes.
// Subscribing after the stream has ended returns a closed channel.
func (s *Session) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// broadcast sends an event to every subscriber. A full subscriber
// channel drops the event rather than stalling the pump.
func (s *Session) broadcast(ev Event) {
	s.mu.Lock()
	subs := s.subscribers
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			n := s.dropped.Add(1)
			log.Printf("session: dropped event for slow subscriber (total dropped: %d)", n)
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.closed = true
}

func filtered(entries []model.LogEntry, f *filter.Filter) []model.LogEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
