// Package store persists reference records in LevelDB so a part enrolled
// in one session can be verified in another. Records are stored as JSON
// under their part name; the database is plain key-value, no schema.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/partmark/partmark/log"
	"github.com/partmark/partmark/part"
)

var refPrefix = []byte("ref:")

// ReferenceStore wraps LevelDB for reference record persistence.
// Thread-safe: LevelDB handles its own synchronization.
type ReferenceStore struct {
	db *leveldb.DB
}

// Open opens or creates a LevelDB database at the given path. An empty
// path opens an in-memory store, used by tests.
func Open(path string) (*ReferenceStore, error) {
	var db *leveldb.DB
	var err error

	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	return &ReferenceStore{db: db}, nil
}

// Close releases the underlying database.
func (s *ReferenceStore) Close() error {
	return s.db.Close()
}

func refKey(name string) []byte {
	return append(append([]byte{}, refPrefix...), name...)
}

// Put stores one reference record under its part name, replacing any
// previous record for that name.
func (s *ReferenceStore) Put(ref *part.Reference) error {
	if ref.Name == "" {
		return fmt.Errorf("store: reference has no part name")
	}
	blob, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("store: marshal %q: %w", ref.Name, err)
	}
	if err := s.db.Put(refKey(ref.Name), blob, nil); err != nil {
		return fmt.Errorf("store: put %q: %w", ref.Name, err)
	}
	log.Debug(log.StoreMonitoring, "reference stored", "part", ref.Name, "bytes", len(blob))
	return nil
}

// Get retrieves a reference record by part name. Returns (nil, false, nil)
// if no record exists.
func (s *ReferenceStore) Get(name string) (*part.Reference, bool, error) {
	blob, err := s.db.Get(refKey(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %q: %w", name, err)
	}
	var ref part.Reference
	if err := json.Unmarshal(blob, &ref); err != nil {
		return nil, false, fmt.Errorf("store: unmarshal %q: %w", name, err)
	}
	return &ref, true, nil
}

// Delete removes a reference record. Deleting a missing record is not an
// error.
func (s *ReferenceStore) Delete(name string) error {
	return s.db.Delete(refKey(name), nil)
}

// List returns the names of all stored reference records in key order.
func (s *ReferenceStore) List() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix(refPrefix), nil)
	defer iter.Release()

	var names []string
	for iter.Next() {
		names = append(names, string(iter.Key()[len(refPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return names, nil
}
