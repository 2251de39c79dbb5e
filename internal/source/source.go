// Package source adapts line-oriented text producers to the session
// engine. The engine never knows how lines are produced; a reader
// stream, a followed file, and a fixed slice all satisfy LineSource.
package source

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"time"
)

const lineBuffer = 512

// maxLineSize bounds a single log line; logcat payloads are capped well
// below this.
const maxLineSize = 1024 * 1024

// LineSource produces discrete lines from some underlying text source.
// Start begins production; the Lines channel closes at end of stream or
// on cancellation. Err reports a read failure once Lines has closed.
type LineSource interface {
	Start(ctx context.Context) error
	Lines() <-chan string
	Err() error
	Close() error
}

// ReaderSource adapts an io.ReadCloser (a process stdout, a file,
// stdin) into a LineSource. Cancelling the Start context closes the
// underlying reader, which unblocks a pending read promptly.
type ReaderSource struct {
	rc    io.ReadCloser
	out   chan string
	mu    sync.Mutex
	err   error
	close sync.Once
}

// NewReader wraps an open reader. The source takes ownership and closes
// it.
func NewReader(rc io.ReadCloser) *ReaderSource {
	return &ReaderSource{
		rc:  rc,
		out: make(chan string, lineBuffer),
	}
}

// Start launches the read loop on its own goroutine.
func (s *ReaderSource) Start(ctx context.Context) error {
	if s.rc == nil {
		return errors.New("reader source: nil reader")
	}

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	go func() {
		defer close(s.out)

		scanner := bufio.NewScanner(s.rc)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case s.out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		// A read failure after deliberate cancellation is not an error.
		if err := scanner.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, fs.ErrClosed) {
			s.setErr(err)
		}
	}()

	return nil
}

// Lines returns the channel of produced lines.
func (s *ReaderSource) Lines() <-chan string { return s.out }

// Err reports the read failure, if any, once Lines has closed.
func (s *ReaderSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the underlying reader. Safe to call more than once.
func (s *ReaderSource) Close() error {
	var err error
	s.close.Do(func() { err = s.rc.Close() })
	return err
}

func (s *ReaderSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// SliceSource emits a fixed sequence of lines and then ends the stream.
// It serves tests and replay of captured input.
type SliceSource struct {
	lines []string
	delay time.Duration
	out   chan string
}

// NewSlice creates a source over the given lines. A non-zero delay is
// inserted between lines to mimic a live stream.
func NewSlice(lines []string, delay time.Duration) *SliceSource {
	return &SliceSource{
		lines: lines,
		delay: delay,
		out:   make(chan string, lineBuffer),
	}
}

func (s *SliceSource) Start(ctx context.Context) error {
	go func() {
		defer close(s.out)
		for _, line := range s.lines {
			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case s.out <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *SliceSource) Lines() <-chan string { return s.out }
func (s *SliceSource) Err() error           { return nil }
func (s *SliceSource) Close() error         { return nil }
