package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// FollowSource tails files matched by glob patterns, emitting lines as
// they are appended. Reading starts at end of file, like a live log
// follow. Rotation (remove/rename then create) reopens the file from
// the top.
type FollowSource struct {
	fsw   *fsnotify.Watcher
	out   chan string
	mu    sync.Mutex
	files map[string]*followedFile
	paths []string
}

type followedFile struct {
	mu      sync.Mutex // serializes drains; held for a whole drain pass
	file    *os.File
	partial string // trailing data not yet terminated by a newline
}

// NewFollow expands the patterns (doublestar globs, e.g.
// "/var/log/**/*.log") and prepares a watch on every matched file.
func NewFollow(patterns []string) (*FollowSource, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s := &FollowSource{
		fsw:   fsw,
		out:   make(chan string, lineBuffer),
		files: make(map[string]*followedFile),
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("follow: cannot watch %s: %v", abs, err)
				continue
			}
			s.paths = append(s.paths, abs)
		}
	}

	if len(s.paths) == 0 {
		fsw.Close()
		return nil, fmt.Errorf("no files matched: %v", patterns)
	}

	return s, nil
}

// Paths returns the files being followed.
func (s *FollowSource) Paths() []string { return s.paths }

// Start opens the matched files at EOF and begins the event loop.
func (s *FollowSource) Start(ctx context.Context) error {
	for _, p := range s.paths {
		if err := s.open(p, io.SeekEnd); err != nil {
			return err
		}
	}

	go s.loop(ctx)
	return nil
}

func (s *FollowSource) loop(ctx context.Context) {
	defer close(s.out)
	defer s.closeFiles()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0:
				s.drain(ctx, ev.Name)
			case ev.Op&fsnotify.Create != 0:
				// Rotated file reappeared; read it from the top.
				if err := s.open(ev.Name, io.SeekStart); err == nil {
					s.drain(ctx, ev.Name)
				}
			case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
				s.forget(ev.Name)
				go s.reconnect(ctx, ev.Name)
			}

		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("follow: watch error: %v", err)
		}
	}
}

// open starts tracking a file, seeking to the given whence.
func (s *FollowSource) open(path string, whence int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.files[path]; ok {
		old.file.Close()
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("follow %s: %w", path, err)
	}
	if _, err := f.Seek(0, whence); err != nil {
		f.Close()
		return err
	}
	s.files[path] = &followedFile{file: f}
	return nil
}

// drain reads everything appended since the last read and emits the
// complete lines.
func (s *FollowSource) drain(ctx context.Context, path string) {
	s.mu.Lock()
	ff, ok := s.files[path]
	s.mu.Unlock()
	if !ok {
		return
	}

	// A write event and a rotation reconnect can both reach the same
	// file; one drainer at a time keeps the offset and the partial tail
	// consistent.
	ff.mu.Lock()
	defer ff.mu.Unlock()

	reader := bufio.NewReader(ff.file)
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil {
			// Keep an unterminated tail for the next write event.
			ff.partial += chunk
			return
		}
		line := ff.partial + chunk[:len(chunk)-1]
		ff.partial = ""
		select {
		case s.out <- line:
		case <-ctx.Done():
			return
		}
	}
}

func (s *FollowSource) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ff, ok := s.files[path]; ok {
		ff.file.Close()
		delete(s.files, path)
	}
}

// reconnect polls for a rotated file to reappear (up to 5 retries).
func (s *FollowSource) reconnect(ctx context.Context, path string) {
	for i := 0; i < 5; i++ {
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return
		}
		if _, err := os.Stat(path); err == nil {
			if err := s.fsw.Add(path); err != nil {
				log.Printf("follow: rewatch %s: %v", path, err)
				return
			}
			if err := s.open(path, io.SeekStart); err == nil {
				log.Printf("follow: reconnected to rotated file %s", path)
				s.drain(ctx, path)
			}
			return
		}
	}
	log.Printf("follow: gave up reconnecting to %s after 5 retries", path)
}

func (s *FollowSource) Lines() <-chan string { return s.out }

// Err is always nil: watch errors are tolerated and the follow keeps
// going on the remaining files.
func (s *FollowSource) Err() error { return nil }

// Close stops the watcher; the event loop then drains and exits.
func (s *FollowSource) Close() error {
	return s.fsw.Close()
}

func (s *FollowSource) closeFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, ff := range s.files {
		ff.file.Close()
		delete(s.files, path)
	}
}
