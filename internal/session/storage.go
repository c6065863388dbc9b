package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Storage is client-side persistent key/value storage.
type Storage interface {
	// Get returns the stored value, or "" when the key is absent.
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// fileState is the on-disk layout of a FileStorage.
type fileState struct {
	Values map[string]string `toml:"values"`
}

// FileStorage persists values in a TOML file readable only by the owner.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage returns a FileStorage backed by path. The file and its
// directory are created on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.Values[key], nil
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, _, err := s.loadForWrite()
	if err != nil {
		return err
	}
	st.Values[key] = value
	return s.save(st)
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, replaced, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := st.Values[key]; !ok && !replaced {
		return nil
	}
	delete(st.Values, key)
	return s.save(st)
}

func (s *FileStorage) load() (fileState, error) {
	var st fileState
	if _, err := toml.DecodeFile(s.path, &st); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileState{Values: map[string]string{}}, nil
		}
		return fileState{}, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if st.Values == nil {
		st.Values = map[string]string{}
	}
	return st, nil
}

// loadForWrite is load for callers about to rewrite the file. A file that
// exists but does not decode yields an empty state and replaced=true; only
// I/O errors are returned.
func (s *FileStorage) loadForWrite() (st fileState, replaced bool, err error) {
	st, err = s.load()
	var pathErr *fs.PathError
	if err != nil && !errors.As(err, &pathErr) {
		return fileState{Values: map[string]string{}}, true, nil
	}
	return st, false, err
}

// save writes st to a temporary sibling and renames it over the file, so a
// reader never sees a partial write.
func (s *FileStorage) save(st fileState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := toml.NewEncoder(tmp).Encode(st); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("renaming into %s: %w", s.path, err)
	}
	return nil
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
