package save

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves", "spellcrawl.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "saves.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	want := sampleRecord()

	if err := s.Save(ctx, "alpha", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "alpha")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %+v; want %+v", got, want)
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	rec := sampleRecord()
	if err := s.Save(ctx, "alpha", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.Player.Level = 4
	rec.Companions = nil
	if err := s.Save(ctx, "alpha", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	slots, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(slots) != 1 || slots[0].Name != "alpha" || slots[0].Level != 4 {
		t.Fatalf("List = %+v; want one alpha slot at level 4", slots)
	}
	got, err := s.Load(ctx, "alpha")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Companions) != 0 {
		t.Errorf("companions = %+v; want none", got.Companions)
	}
}

func TestMissingSlot(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if _, err := s.Load(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load err = %v; want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v; want ErrNotFound", err)
	}
}

func TestDeleteRemovesSlot(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, name := range []string{"a", "b"} {
		if err := s.Save(ctx, name, sampleRecord()); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	slots, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(slots) != 1 || slots[0].Name != "b" {
		t.Fatalf("List = %+v; want only b", slots)
	}
}
