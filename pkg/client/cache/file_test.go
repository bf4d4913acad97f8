package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type ticketSnapshot struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	in := []ticketSnapshot{{ID: "1", Title: "Leaking Faucet"}, {ID: "2", Title: "Broken Window"}}
	if err := store.Put(ctx, KeyTickets, in); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var out []ticketSnapshot
	found, err := store.Get(ctx, KeyTickets, &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false for a stored key")
	}
	if len(out) != 2 || out[0].ID != "1" || out[1].Title != "Broken Window" {
		t.Errorf("Get() = %+v, want stored snapshot", out)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	var out []ticketSnapshot
	found, err := store.Get(context.Background(), KeyMessages, &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for a missing key")
	}
}

func TestFileStoreCorruptEntryReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, KeyTickets+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out []ticketSnapshot
	found, err := store.Get(context.Background(), KeyTickets, &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("corrupt entry should read as absent")
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, KeySession, ticketSnapshot{ID: "s"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete(ctx, KeySession); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var out ticketSnapshot
	if found, _ := store.Get(ctx, KeySession, &out); found {
		t.Error("key still present after Delete")
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, KeySession); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}
