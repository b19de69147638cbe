package storage

import (
	"testing"

	"github.com/colorfulnotion/treasure/common"
	"github.com/syndtr/goleveldb/leveldb"
)

func TestPersistenceStore_BasicOperations(t *testing.T) {
	ps, err := NewMemoryPersistenceStore()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ps.Close()

	key := []byte("test-key")
	value := []byte("test-value")
	if err := ps.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := ps.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected key to be found")
	}
	if string(got) != string(value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	_, found, err = ps.Get([]byte("non-existent"))
	if err != nil {
		t.Fatalf("Get non-existent failed: %v", err)
	}
	if found {
		t.Error("Expected key not to be found")
	}

	if err := ps.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ = ps.Get(key); found {
		t.Error("Expected key to be deleted")
	}
}

func TestPersistenceStore_HashOperations(t *testing.T) {
	ps, err := NewMemoryPersistenceStore()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ps.Close()

	key := common.Blake2Hash([]byte("statement"))
	prefix := []byte("proof/")
	if _, err := ps.GetHash(prefix, key); err != leveldb.ErrNotFound {
		t.Fatalf("GetHash on empty store: got %v, want ErrNotFound", err)
	}
	if err := ps.PutHash(prefix, key, []byte("proof")); err != nil {
		t.Fatalf("PutHash failed: %v", err)
	}
	got, err := ps.GetHash(prefix, key)
	if err != nil {
		t.Fatalf("GetHash failed: %v", err)
	}
	if string(got) != "proof" {
		t.Errorf("GetHash returned %q", got)
	}
	if _, err := ps.GetHash([]byte("other/"), key); err != leveldb.ErrNotFound {
		t.Errorf("GetHash under another prefix: got %v, want ErrNotFound", err)
	}
	if _, found, _ := ps.Get(key.Bytes()); found {
		t.Error("digest stored without its prefix")
	}
	pairs, err := ps.GetWithPrefix(prefix)
	if err != nil {
		t.Fatalf("GetWithPrefix failed: %v", err)
	}
	if len(pairs) != 1 || string(pairs[0][0]) != string(HashKey(prefix, key)) {
		t.Errorf("GetWithPrefix returned %v", pairs)
	}
}

func TestPersistenceStore_PrefixAndBatch(t *testing.T) {
	ps, err := NewMemoryPersistenceStore()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ps.Close()

	err = ps.WriteBatch([][2][]byte{
		{[]byte("player/bob"), []byte("35")},
		{[]byte("player/alice"), []byte("40")},
		{[]byte("event/0"), []byte("x")},
		{[]byte("playerz"), []byte("no")},
	})
	if err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	pairs, err := ps.GetWithPrefix([]byte("player/"))
	if err != nil {
		t.Fatalf("GetWithPrefix failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("GetWithPrefix returned %d pairs, want 2", len(pairs))
	}
	if string(pairs[0][0]) != "player/alice" || string(pairs[1][0]) != "player/bob" {
		t.Errorf("unexpected order: %q, %q", pairs[0][0], pairs[1][0])
	}
}

func TestPersistenceStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ps, err := NewPersistenceStore(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := ps.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := ps.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	ps, err = NewPersistenceStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ps.Close()
	got, found, err := ps.Get([]byte("k"))
	if err != nil || !found || string(got) != "v" {
		t.Fatalf("after reopen: %q %v %v", got, found, err)
	}
	if ps.Path() != dir {
		t.Errorf("Path() = %q", ps.Path())
	}
}
