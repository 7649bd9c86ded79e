package sessionstore

import (
	"os"
	"testing"
)

func testStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "sessionstore-test-*")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}

	store, err := Open(dir)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("Open: %v", err)
	}

	return store, func() {
		store.Close()
		os.RemoveAll(dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	if err := store.Save("pane-1", []byte("hello")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	blob, err := store.Load("pane-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(blob) != "hello" {
		t.Fatalf("got %q, want %q", blob, "hello")
	}
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	if _, err := store.Load("missing"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	store.Save("pane-1", []byte("v1"))
	store.Save("pane-1", []byte("v2"))

	blob, err := store.Load("pane-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(blob) != "v2" {
		t.Fatalf("got %q, want %q", blob, "v2")
	}
}

func TestDeleteAndList(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	store.Save("a", []byte("1"))
	store.Save("b", []byte("2"))

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != "b" {
		t.Fatalf("got %v, want [b]", ids)
	}
}
