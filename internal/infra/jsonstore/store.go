// Package jsonstore provides a JSON file-based implementation of
// domain.CompletionOverrides.
//
// The file is a flat object keyed by domain.OverrideKey:
//
//	{"habit_completions_2025-01-15": ["3f9c...", "a1b2..."]}
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/dailyquest/dq/internal/domain"
)

// storeData represents the JSON file structure.
type storeData map[string][]string

// Store implements domain.CompletionOverrides using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// Ensure Store implements CompletionOverrides.
var _ domain.CompletionOverrides = (*Store)(nil)

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the IDs recorded for date.
func (s *Store) Get(date string) ([]string, error) {
	var ids []string
	err := s.withLock(func(data storeData) error {
		ids = slices.Clone(data[domain.OverrideKey(date)])
		return nil
	})
	return ids, err
}

// Add records taskID for date.
func (s *Store) Add(date, taskID string) error {
	return s.withLockWrite(func(data storeData) error {
		key := domain.OverrideKey(date)
		if slices.Contains(data[key], taskID) {
			return nil
		}
		data[key] = append(data[key], taskID)
		return nil
	})
}

// Remove drops taskID from date.
func (s *Store) Remove(date, taskID string) error {
	return s.withLockWrite(func(data storeData) error {
		key := domain.OverrideKey(date)
		ids := slices.DeleteFunc(data[key], func(id string) bool { return id == taskID })
		if len(ids) == 0 {
			delete(data, key)
			return nil
		}
		data[key] = ids
		return nil
	})
}

// Clear drops every ID recorded for date.
func (s *Store) Clear(date string) error {
	return s.withLockWrite(func(data storeData) error {
		delete(data, domain.OverrideKey(date))
		return nil
	})
}

// Prune drops every date before the given one.
// Keys without the override prefix are left untouched.
func (s *Store) Prune(before string) (int, error) {
	var n int
	err := s.withLockWrite(func(data storeData) error {
		for key := range data {
			date, ok := strings.CutPrefix(key, domain.OverrideKeyPrefix)
			if !ok {
				continue
			}
			// DateLayout sorts lexically in calendar order.
			if date < before {
				delete(data, key)
				n++
			}
		}
		return nil
	})
	return n, err
}

// Dates returns every date with recorded IDs, oldest first.
func (s *Store) Dates() ([]string, error) {
	var dates []string
	err := s.withLock(func(data storeData) error {
		for key := range data {
			if date, ok := strings.CutPrefix(key, domain.OverrideKeyPrefix); ok {
				dates = append(dates, date)
			}
		}
		return nil
	})
	slices.Sort(dates)
	return dates, err
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read loads the file. A missing or empty file is an empty store.
func (s *Store) read() (storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return storeData{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return storeData{}, nil
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if data == nil {
		data = storeData{}
	}
	return data, nil
}

func (s *Store) write(data storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
