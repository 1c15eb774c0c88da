package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dailyquest/dq/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "completions.json"))
}

func TestStore_GetMissingFile(t *testing.T) {
	store := newTestStore(t)

	ids, err := store.Get("2025-01-15")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Get() = %v, want empty", ids)
	}
}

func TestStore_AddAndGet(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"h1", "h2", "h1"} {
		if err := store.Add("2025-01-15", id); err != nil {
			t.Fatalf("Add(%q) error = %v", id, err)
		}
	}
	if err := store.Add("2025-01-16", "h3"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ids, err := store.Get("2025-01-15")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !slices.Equal(ids, []string{"h1", "h2"}) {
		t.Errorf("Get() = %v, want [h1 h2]", ids)
	}

	other, _ := store.Get("2025-01-16")
	if !slices.Equal(other, []string{"h3"}) {
		t.Errorf("Get(other day) = %v, want [h3]", other)
	}
}

func TestStore_FileLayout(t *testing.T) {
	store := newTestStore(t)
	if err := store.Add("2025-01-15", "h1"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	content, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(content, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !slices.Equal(raw["habit_completions_2025-01-15"], []string{"h1"}) {
		t.Errorf("file = %s, want key habit_completions_2025-01-15", content)
	}
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)
	_ = store.Add("2025-01-15", "h1")
	_ = store.Add("2025-01-15", "h2")

	if err := store.Remove("2025-01-15", "h1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	// Removing a missing ID is a no-op
	if err := store.Remove("2025-01-15", "nope"); err != nil {
		t.Fatalf("Remove(missing) error = %v", err)
	}

	ids, _ := store.Get("2025-01-15")
	if !slices.Equal(ids, []string{"h2"}) {
		t.Errorf("Get() = %v, want [h2]", ids)
	}

	_ = store.Remove("2025-01-15", "h2")
	dates, _ := store.Dates()
	if len(dates) != 0 {
		t.Errorf("Dates() = %v, want empty after last removal", dates)
	}
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	_ = store.Add("2025-01-15", "h1")
	_ = store.Add("2025-01-16", "h2")

	if err := store.Clear("2025-01-15"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	ids, _ := store.Get("2025-01-15")
	if len(ids) != 0 {
		t.Errorf("Get() = %v, want empty", ids)
	}
	kept, _ := store.Get("2025-01-16")
	if len(kept) != 1 {
		t.Errorf("Clear() touched another date: %v", kept)
	}
}

func TestStore_Prune(t *testing.T) {
	store := newTestStore(t)
	for _, d := range []string{"2024-12-31", "2025-01-14", "2025-01-15", "2025-01-16"} {
		_ = store.Add(d, "h1")
	}

	n, err := store.Prune("2025-01-15")
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Prune() = %d, want 2", n)
	}

	dates, _ := store.Dates()
	if !slices.Equal(dates, []string{"2025-01-15", "2025-01-16"}) {
		t.Errorf("Dates() = %v", dates)
	}
}

func TestStore_PruneKeepsForeignKeys(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte(`{"other_key":["x"],"habit_completions_2020-01-01":["h"]}`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	n, err := store.Prune("2025-01-01")
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}

	content, _ := os.ReadFile(store.Path())
	var raw map[string][]string
	_ = json.Unmarshal(content, &raw)
	if _, ok := raw["other_key"]; !ok {
		t.Errorf("Prune() dropped a foreign key: %s", content)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := store.Get("2025-01-15"); err == nil {
		t.Error("Get() on corrupt file should fail")
	}
	if err := store.Add("2025-01-15", "h1"); err == nil {
		t.Error("Add() on corrupt file should fail")
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := store.Add("2025-01-15", id); err != nil {
				t.Errorf("Add(%q) error = %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	ids, _ := store.Get("2025-01-15")
	if len(ids) != 6 {
		t.Errorf("Get() = %v, want 6 IDs", ids)
	}
}

func TestStore_SatisfiesReconciler(t *testing.T) {
	store := newTestStore(t)
	r := domain.NewReconciler(store)

	if err := r.MarkCompleted("h1", time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	ids, _ := store.Get("2025-01-15")
	if !slices.Equal(ids, []string{"h1"}) {
		t.Errorf("Get() = %v, want [h1]", ids)
	}
}
