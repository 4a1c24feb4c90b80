package document

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// Store persists a single JSON document of type T at a fixed path.
//
// All access from this process is serialized by an in-process mutex; an
// advisory file lock additionally guards against other processes touching
// the same file. Writes go through a temp file in the same directory
// followed by an atomic rename, so a reader never observes a partially
// written document.
//
// NOTE: Load and Save taken separately do NOT make a read-modify-write
// atomic - use Update for that.
type Store[T any] struct {
	path     string
	defaults func() T
	// normalize back-fills top-level keys that older files are missing.
	// It reports whether it changed the document, in which case Load
	// rewrites the file.
	normalize func(*T) bool

	mu    sync.Mutex
	flock *flock.Flock
}

// New creates a Store for the document at path. defaults produces the
// initial document used when the file is absent or unreadable; normalize
// may be nil.
func New[T any](path string, defaults func() T, normalize func(*T) bool) *Store[T] {
	return &Store[T]{
		path:      path,
		defaults:  defaults,
		normalize: normalize,
		flock:     flock.New(path),
	}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// InitIfAbsent writes the default document when no file exists yet. It
// reports whether it seeded a fresh file, so callers can run first-boot
// side effects exactly once.
func (s *Store[T]) InitIfAbsent(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	if err := s.saveLocked(ctx, s.defaults()); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the current document. An absent or undecodable file is not an
// error: the store quarantines an unreadable file beside the original,
// reinitializes to defaults and returns those.
func (s *Store[T]) Load(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Save atomically replaces the document on disk. Write failures (disk
// full, permissions) propagate to the caller; there is no retry.
func (s *Store[T]) Save(ctx context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, doc)
}

// Update runs fn on the current document and persists the result, holding
// the in-process lock across the whole load-mutate-save span so concurrent
// updates from this process cannot be lost. If fn returns an error the
// document is not written.
func (s *Store[T]) Update(ctx context.Context, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.saveLocked(ctx, doc)
}

func (s *Store[T]) loadLocked(ctx context.Context) (T, error) {
	var zero T

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.healLocked(ctx)
	} else if err != nil {
		return zero, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	if err := s.flock.RLock(); err != nil {
		return zero, fmt.Errorf("failed to acquire shared lock on %s: %w", s.path, err)
	}
	data, readErr := os.ReadFile(s.path)
	if err := s.flock.Unlock(); err != nil {
		return zero, fmt.Errorf("failed to release lock on %s: %w", s.path, err)
	}
	if readErr != nil {
		return zero, fmt.Errorf("failed to read %s: %w", s.path, readErr)
	}

	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		logrus.WithField("path", s.path).WithError(err).
			Error("document file is unreadable, quarantining and reinitializing")
		s.quarantineLocked()
		return s.healLocked(ctx)
	}

	if s.normalize != nil && s.normalize(&doc) {
		// Older file was missing keys. Persist the back-filled shape so
		// the migration happens once.
		if err := s.saveLocked(ctx, doc); err != nil {
			return zero, err
		}
	}
	return doc, nil
}

func (s *Store[T]) saveLocked(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := s.flock.Lock(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to acquire exclusive lock on %s: %w", s.path, err)
	}
	defer func() {
		if err := s.flock.Unlock(); err != nil {
			logrus.WithField("path", s.path).WithError(err).Error("failed to release file lock")
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %s: %w", tmpName, err)
	}

	// The rename is the only visible state transition.
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// healLocked reinitializes the document to defaults and persists it.
func (s *Store[T]) healLocked(ctx context.Context) (T, error) {
	doc := s.defaults()
	if err := s.saveLocked(ctx, doc); err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

// quarantineLocked moves an unreadable file out of the way instead of
// discarding it, so an operator can still inspect the prior state.
func (s *Store[T]) quarantineLocked() {
	quarantine := s.path + ".corrupt." + strconv.FormatInt(time.Now().Unix(), 10)
	if err := os.Rename(s.path, quarantine); err != nil {
		logrus.WithField("path", s.path).WithError(err).Error("failed to quarantine corrupt document file")
		return
	}
	logrus.WithFields(logrus.Fields{
		"path":       s.path,
		"quarantine": quarantine,
	}).Warn("quarantined corrupt document file")
}
