package storage

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	data := []byte("attachment body")
	key, err := store.Save("design notes.pdf", data)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// The key carries only the extension, never the original name.
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key missing extension: %s", key)
	}
	if strings.Contains(key, "design") {
		t.Fatalf("key leaks original name: %s", key)
	}

	got, err := store.Read(key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("read mismatch: %q", got)
	}

	if _, err := os.Stat(store.Path(key)); err != nil {
		t.Fatalf("object missing on disk: %v", err)
	}

	if err := store.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Read(key); err == nil {
		t.Fatal("read succeeded after delete")
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestLocalStoreDistinctKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	a, err := store.Save("same.txt", []byte("first"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := store.Save("same.txt", []byte("second"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if a == b {
		t.Fatalf("same key for two saves: %s", a)
	}
}
