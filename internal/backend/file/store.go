// Package file implements the service.Service interface over a local data file.
//
// The file holds one task record per line in the form produced by
// task.Task.FileString, e.g. "D | 0 | submit report | 2026-10-20".
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"duke/internal/service"
	"duke/internal/task"
	"duke/internal/tasklist"
)

// Store implements service.Service. Every call reloads the file so that
// edits made between calls (or by another process) are picked up.
type Store struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

// New creates a store for the file at path. The file need not exist yet.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log.With(zap.String("path", path))}
}

// Path returns the data file path.
func (s *Store) Path() string { return s.path }

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	return list.All(), nil
}

// AddTask implements service.Service.
func (s *Store) AddTask(ctx context.Context, t task.Task) error {
	return s.update(func(list *tasklist.List) error {
		list.Add(t)
		return nil
	})
}

// MarkTask implements service.Service.
func (s *Store) MarkTask(ctx context.Context, n int) (task.Task, error) {
	return s.updateOne(func(list *tasklist.List) (task.Task, error) { return list.Mark(n) })
}

// UnmarkTask implements service.Service.
func (s *Store) UnmarkTask(ctx context.Context, n int) (task.Task, error) {
	return s.updateOne(func(list *tasklist.List) (task.Task, error) { return list.Unmark(n) })
}

// DeleteTask implements service.Service.
func (s *Store) DeleteTask(ctx context.Context, n int) (task.Task, error) {
	return s.updateOne(func(list *tasklist.List) (task.Task, error) { return list.Delete(n) })
}

func (s *Store) updateOne(fn func(*tasklist.List) (task.Task, error)) (task.Task, error) {
	var out task.Task
	err := s.update(func(list *tasklist.List) error {
		t, err := fn(list)
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// update loads the list, applies fn and saves the result.
func (s *Store) update(fn func(*tasklist.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(list); err != nil {
		if errors.Is(err, tasklist.ErrOutOfRange) {
			return fmt.Errorf("%w: %v", service.ErrOutOfRange, err)
		}
		return err
	}
	return s.save(list)
}

func (s *Store) load() (*tasklist.List, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("data file missing, starting empty")
		return tasklist.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	defer f.Close()

	list, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", service.ErrStorage, s.path, err)
	}
	s.log.Debug("loaded tasks", zap.Int("count", list.Len()))
	return list, nil
}

// save writes to a temporary file in the same directory and renames it
// over the data file.
func (s *Store) save(list *tasklist.List) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".duke-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, list); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	s.log.Debug("saved tasks", zap.Int("count", list.Len()))
	return nil
}

// Decode reads records until EOF. Blank lines are skipped; any other line
// that does not parse fails the whole decode.
func Decode(r io.Reader) (*tasklist.List, error) {
	list := tasklist.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := task.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		list.Add(t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Encode writes one record per task, each followed by a newline.
func Encode(w io.Writer, list *tasklist.List) error {
	bw := bufio.NewWriter(w)
	for _, t := range list.All() {
		if _, err := bw.WriteString(t.FileString() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
