// Package counter keeps the global request total in a flat file so it
// survives restarts.
package counter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Store persists a monotonically growing request count to a single file.
// All access is serialized, so concurrent increments never lose updates.
type Store struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

// NewStore opens the counter file at path, creating it with "0" when absent.
// Unreadable content is treated as corruption and reset to zero.
func NewStore(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("counter: create dir: %w", err)
	}

	s := &Store{path: path, log: log}

	if _, err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Total returns the current request count.
func (s *Store) Total() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Increment adds one to the count and persists it, returning the new total.
func (s *Store) Increment() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.load()
	if err != nil {
		return 0, err
	}

	total++
	if err := s.write(total); err != nil {
		return 0, err
	}

	return total, nil
}

func (s *Store) load() (int64, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.write(0); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counter: read %s: %w", s.path, err)
	}

	total, parseErr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if parseErr != nil || total < 0 {
		s.log.Warn("counter file is corrupt, resetting to zero", slog.String("path", s.path))

		if err := s.write(0); err != nil {
			return 0, err
		}
		return 0, nil
	}

	return total, nil
}

func (s *Store) write(total int64) error {
	if err := os.WriteFile(s.path, []byte(strconv.FormatInt(total, 10)), 0o644); err != nil {
		return fmt.Errorf("counter: write %s: %w", s.path, err)
	}

	return nil
}
