// Package store holds the catalog inventory: configured roots, file
// records, tags, and their id counters. The working set lives in memory;
// durability comes from a Badger database that the whole inventory is
// loaded from and saved to.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for the Badger layout.
const (
	prefixRoot    = "r:" // RootEntry keyed by id
	prefixFile    = "f:" // FileEntry keyed by id
	prefixTag     = "t:" // TagEntry keyed by id
	prefixFileTag = "x:" // FileTagEntry keyed by file id / tag id
	keyMeta       = "m:counters"
)

// meta persists the id counters alongside the records.
type meta struct {
	Version    int   `json:"version"`
	LastRunID  int64 `json:"last_run_id"`
	NextRootID int64 `json:"next_root_id"`
	NextFileID int64 `json:"next_file_id"`
	NextTagID  int64 `json:"next_tag_id"`
}

// Store couples the in-memory inventory with its Badger database.
type Store struct {
	path string
	db   *badger.DB

	// Data is the in-memory inventory. Mutated only between Open and
	// Close by a single writer at a time.
	Data *Data
}

// Open opens or creates a store at the given directory and loads the
// full inventory into memory.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	s := &Store{path: path, db: db, Data: NewData()}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database without saving.
func (s *Store) Close() error {
	return s.db.Close()
}

// load reads every record from the database into Data.
func (s *Store) load() error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(val []byte) error {
				return s.decodeInto(key, val)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Data.EnsureCounters()
	return nil
}

// decodeInto unmarshals one key/value pair into the inventory.
func (s *Store) decodeInto(key string, val []byte) error {
	switch {
	case key == keyMeta:
		var m meta
		if err := json.Unmarshal(val, &m); err != nil {
			return err
		}
		s.Data.Version = m.Version
		s.Data.LastRunID = m.LastRunID
		s.Data.NextRootID = m.NextRootID
		s.Data.NextFileID = m.NextFileID
		s.Data.NextTagID = m.NextTagID
	case strings.HasPrefix(key, prefixRoot):
		var r RootEntry
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		s.Data.Roots = append(s.Data.Roots, r)
	case strings.HasPrefix(key, prefixFile):
		var f FileEntry
		if err := json.Unmarshal(val, &f); err != nil {
			return err
		}
		s.Data.Files = append(s.Data.Files, f)
	case strings.HasPrefix(key, prefixTag):
		var t TagEntry
		if err := json.Unmarshal(val, &t); err != nil {
			return err
		}
		s.Data.Tags = append(s.Data.Tags, t)
	case strings.HasPrefix(key, prefixFileTag):
		var ft FileTagEntry
		if err := json.Unmarshal(val, &ft); err != nil {
			return err
		}
		s.Data.FileTags = append(s.Data.FileTags, ft)
	}
	// Unknown keys are ignored for forward compatibility.
	return nil
}

// Save writes the full inventory back to the database in one write
// batch, removing keys for records that no longer exist (root removal
// cascades physically; file records otherwise only soft-delete).
func (s *Store) Save() error {
	current := make(map[string][]byte)

	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		current[key] = data
		return nil
	}

	m := meta{
		Version:    s.Data.Version,
		LastRunID:  s.Data.LastRunID,
		NextRootID: s.Data.NextRootID,
		NextFileID: s.Data.NextFileID,
		NextTagID:  s.Data.NextTagID,
	}
	if err := put(keyMeta, m); err != nil {
		return err
	}
	for _, r := range s.Data.Roots {
		if err := put(fmt.Sprintf("%s%d", prefixRoot, r.ID), r); err != nil {
			return err
		}
	}
	for _, f := range s.Data.Files {
		if err := put(fmt.Sprintf("%s%d", prefixFile, f.ID), f); err != nil {
			return err
		}
	}
	for _, t := range s.Data.Tags {
		if err := put(fmt.Sprintf("%s%d", prefixTag, t.ID), t); err != nil {
			return err
		}
	}
	for _, ft := range s.Data.FileTags {
		if err := put(fmt.Sprintf("%s%d:%d", prefixFileTag, ft.FileID, ft.TagID), ft); err != nil {
			return err
		}
	}

	stale, err := s.staleKeys(current)
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, key := range stale {
		if err := wb.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete %q: %w", key, err)
		}
	}
	for key, val := range current {
		if err := wb.Set([]byte(key), val); err != nil {
			return fmt.Errorf("failed to write %q: %w", key, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}
	return nil
}

// staleKeys returns keys present in the database but absent from the
// in-memory inventory.
func (s *Store) staleKeys(current map[string][]byte) ([]string, error) {
	var stale []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			if _, ok := current[key]; !ok {
				stale = append(stale, key)
			}
		}
		return nil
	})
	return stale, err
}

// ExportJSON renders the full inventory as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	out, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize store: %w", err)
	}
	return out, nil
}

// Prune closes the store and removes all on-disk state.
func Prune(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove store %s: %w", path, err)
	}
	return nil
}
