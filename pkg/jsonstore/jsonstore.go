// Package jsonstore provides a durable store of named JSON documents.
//
// All read-modify-write sequences are serialized behind one store-wide
// mutex, and every save publishes atomically via temp-write-then-rename
// so that a crash never leaves a document half-written.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
)

// ErrIO marks store input/output failures.
var ErrIO = errors.New("store i/o failure")

// Store is a directory of named JSON documents.
type Store struct {
	dir string
	mu  sync.Mutex // one coarse lock for the whole store, not per document
}

// Open creates the data directory if needed and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory %s: %v", ErrIO, dir, err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the data directory backing the store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load decodes the named document into v. A missing or corrupt document
// is reported as absent (ok=false), not as an error.
func (s *Store) Load(name string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(name, v)
}

func (s *Store) load(name string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("%w: reading %s: %v", ErrIO, name, err)
	}

	// Decode into a fresh value first: a mid-document type mismatch would
	// otherwise leave v partially populated before the document is
	// reported absent.
	fresh := reflect.New(reflect.TypeOf(v).Elem())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return false, nil
	}

	reflect.ValueOf(v).Elem().Set(fresh.Elem())

	return true, nil
}

// Save writes the named document atomically, replacing any previous content.
func (s *Store) Save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(name, v)
}

func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrIO, name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file for %s: %v", ErrIO, name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("%w: writing %s: %v", ErrIO, name, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("%w: closing %s: %v", ErrIO, name, err)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("%w: publishing %s: %v", ErrIO, name, err)
	}

	return nil
}

// Update runs load -> mutate -> save for the named document as one critical
// section. The mutator receives the zero value of T when the document is
// absent. A mutator error aborts the update without touching stored state.
func Update[T any](s *Store, name string, mutate func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc T
	if _, err := s.load(name, &doc); err != nil {
		return doc, err
	}

	updated, err := mutate(doc)
	if err != nil {
		return updated, err
	}

	if err := s.save(name, updated); err != nil {
		return updated, err
	}

	return updated, nil
}
