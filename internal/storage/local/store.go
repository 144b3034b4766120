// Package local keeps whole collections as JSON documents on disk, one file
// per key under a data directory.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"daylog/internal/collection"
	"daylog/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const ext = ".json"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store maps keys to JSON files under a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New opens (creating if needed) a store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", errors.NewInvalidInputError("key", key, "must contain only letters, digits, '-' and '_'")
	}
	return filepath.Join(s.dir, key+ext), nil
}

// Load decodes the value stored under key into v. It reports false, leaving v
// untouched, when nothing has been stored yet.
func (s *Store) Load(key string, v interface{}) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(p)
	s.mu.Unlock()

	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewDatabaseError("read "+key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.NewDatabaseError("decode "+key, err)
	}
	return true, nil
}

// Save encodes v and atomically replaces the file for key.
func (s *Store) Save(key string, v interface{}) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewDatabaseError("encode "+key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return errors.NewDatabaseError("write "+key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewDatabaseError("write "+key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewDatabaseError("sync "+key, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewDatabaseError("write "+key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return errors.NewDatabaseError("replace "+key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.NewDatabaseError("delete "+key, err)
	}
	return nil
}

// Keys lists stored keys in lexical order.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.NewDatabaseError("list keys", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		key := strings.TrimSuffix(name, ext)
		if keyPattern.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// CopyTo writes a copy of every stored key into dir, which is created if needed.
func (s *Store) CopyTo(dir string) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		data, err := os.ReadFile(filepath.Join(s.dir, key+ext))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := os.WriteFile(filepath.Join(dir, key+ext), data, 0644); err != nil {
			return fmt.Errorf("failed to copy %s: %w", key, err)
		}
	}
	return nil
}

// LoadList reads the ordered list stored under key. A missing key is an empty list.
func LoadList[T any](s *Store, key string) ([]T, error) {
	var items []T
	if _, err := s.Load(key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveList replaces the list stored under key.
func SaveList[T any](s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return s.Save(key, items)
}

// Persister mirrors a collection into key by rewriting the full snapshot on
// every change.
func Persister[T collection.Record](s *Store, key string) collection.Persister[T] {
	return collection.PersisterFunc[T](func(ctx context.Context, change collection.Change[T]) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return SaveList(s, key, change.Snapshot)
	})
}
