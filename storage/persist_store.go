// Package storage is the key-value layer under the leaderboard. No game
// logic lives here.
package storage

import (
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/log"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// PersistenceStore wraps LevelDB for raw key-value persistence.
// Thread-safe: LevelDB handles its own synchronization.
type PersistenceStore struct {
	db   *leveldb.DB
	path string
}

// NewPersistenceStore opens or creates a LevelDB database at the given path.
// If path is empty, uses in-memory storage.
func NewPersistenceStore(path string) (*PersistenceStore, error) {
	var db *leveldb.DB
	var err error

	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	log.Debug(log.StorageMonitoring, "opened store", "path", path, "memory", path == "")
	return &PersistenceStore{db: db, path: path}, nil
}

func NewMemoryPersistenceStore() (*PersistenceStore, error) {
	return NewPersistenceStore("")
}

// Path is empty for in-memory stores.
func (ps *PersistenceStore) Path() string { return ps.path }

// Get returns (nil, false, nil) if the key is absent.
func (ps *PersistenceStore) Get(key []byte) ([]byte, bool, error) {
	data, err := ps.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("Get %x: %w", key, err)
	}
	return data, true, nil
}

func (ps *PersistenceStore) Put(key []byte, value []byte) error {
	return ps.db.Put(key, value, nil)
}

func (ps *PersistenceStore) Delete(key []byte) error {
	return ps.db.Delete(key, nil)
}

// WriteBatch applies every pair atomically.
func (ps *PersistenceStore) WriteBatch(pairs [][2][]byte) error {
	batch := new(leveldb.Batch)
	for _, kv := range pairs {
		batch.Put(kv[0], kv[1])
	}
	if err := ps.db.Write(batch, nil); err != nil {
		return fmt.Errorf("WriteBatch (%d pairs): %w", len(pairs), err)
	}
	return nil
}

// GetWithPrefix returns all key-value pairs with the given prefix, in key
// order. Keys and values are copies.
func (ps *PersistenceStore) GetWithPrefix(prefix []byte) ([][2][]byte, error) {
	iter := ps.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var results [][2][]byte
	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		value := append([]byte(nil), iter.Value()...)
		results = append(results, [2][]byte{key, value})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("GetWithPrefix %x: %w", prefix, err)
	}
	return results, nil
}

// HashKey namespaces a digest under prefix.
func HashKey(prefix []byte, h common.Hash) []byte {
	return append(append(make([]byte, 0, len(prefix)+len(h)), prefix...), h.Bytes()...)
}

// GetHash returns leveldb.ErrNotFound if absent, unlike Get.
func (ps *PersistenceStore) GetHash(prefix []byte, h common.Hash) ([]byte, error) {
	return ps.db.Get(HashKey(prefix, h), nil)
}

func (ps *PersistenceStore) PutHash(prefix []byte, h common.Hash, value []byte) error {
	return ps.db.Put(HashKey(prefix, h), value, nil)
}

func (ps *PersistenceStore) Close() error {
	return ps.db.Close()
}
