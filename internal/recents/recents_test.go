package recents

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/window"
)

func cfg(n int) window.Config {
	return window.Config{
		ID:         fmt.Sprintf("w%d", n),
		Title:      fmt.Sprintf("Window %d", n),
		ContentURL: fmt.Sprintf("app://%d", n),
	}
}

func urls(items []window.Config) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ContentURL
	}
	return out
}

func TestListBoundAndMRU(t *testing.T) {
	l := NewList(0, nil)
	for i := 1; i <= 11; i++ {
		l.Push(cfg(i))
	}
	items := l.Items()
	if len(items) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(items))
	}
	for i, it := range items {
		want := fmt.Sprintf("app://%d", 11-i)
		if it.ContentURL != want {
			t.Fatalf("entry %d = %q, want %q", i, it.ContentURL, want)
		}
	}
}

func TestListDedupMovesToFront(t *testing.T) {
	l := NewList(5, nil)
	l.Push(cfg(1))
	l.Push(cfg(2))
	again := cfg(1)
	again.ID = "other"
	l.Push(again)

	got := l.Items()
	if len(got) != 2 || got[0].ID != "other" || got[1].ContentURL != "app://2" {
		t.Fatalf("unexpected list %+v", got)
	}
}

func TestListRemove(t *testing.T) {
	l := NewList(5, []window.Config{cfg(3), cfg(2), cfg(1)})
	if !l.Remove("app://2") {
		t.Fatalf("expected removal")
	}
	if l.Remove("app://9") {
		t.Fatalf("unknown url must not report a change")
	}
	if got := urls(l.Items()); len(got) != 2 || got[0] != "app://3" || got[1] != "app://1" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestNewListKeepsSeedOrderAndCap(t *testing.T) {
	seed := make([]window.Config, 0, 12)
	for i := 12; i >= 1; i-- {
		seed = append(seed, cfg(i))
	}
	l := NewList(10, seed)
	got := urls(l.Items())
	if len(got) != 10 || got[0] != "app://12" || got[9] != "app://3" {
		t.Fatalf("unexpected seeded list %v", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"empty", "", 0},
		{"garbage", "{not json", 0},
		{"wrong shape", `{"id":"a"}`, 0},
		{"drops entries without url", `[{"id":"a","title":"A","contentUrl":"x"},{"id":"b"}]`, 1},
		{"with geometry", `[{"id":"a","title":"A","contentUrl":"x","position":{"x":1,"y":2},"size":{"width":3,"height":4}}]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.data))
			if got == nil || len(got) != tt.want {
				t.Fatalf("Decode() = %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", Key+".json")
	store := NewFileStore(path)

	items, err := store.Load()
	if err != nil || len(items) != 0 {
		t.Fatalf("missing file should load empty, got %v, %v", items, err)
	}

	c := cfg(1)
	c.Position = &geometry.Point{X: 10, Y: 20}
	c.Size = &geometry.Size{Width: 300, Height: 200}
	if err := store.Save([]window.Config{c, cfg(2)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0].Position == nil || *got[0].Position != *c.Position || *got[0].Size != *c.Size {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFileStoreMalformedIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), Key+".json")
	if err := os.WriteFile(path, []byte("[[["), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := NewFileStore(path).Load()
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v, %v", got, err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panehost.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	items, err := store.Load()
	if err != nil || len(items) != 0 {
		t.Fatalf("fresh db should load empty, got %v, %v", items, err)
	}
	if err := store.Save([]window.Config{cfg(2), cfg(1)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save([]window.Config{cfg(3), cfg(2), cfg(1)}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if u := urls(got); len(u) != 3 || u[0] != "app://3" {
		t.Fatalf("unexpected list %v", u)
	}

	if err := store.putRaw(Key, "not json"); err != nil {
		t.Fatalf("putRaw: %v", err)
	}
	got, err = store.Load()
	if err != nil || len(got) != 0 {
		t.Fatalf("malformed row should load empty, got %v, %v", got, err)
	}
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panehost.db")
	for i := 0; i < 2; i++ {
		store, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := store.Save([]window.Config{cfg(i)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		store.Close()
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(BackendMemory, ""); err != nil {
		t.Fatalf("memory: %v", err)
	}
	s, err := Open(BackendJSON, filepath.Join(dir, "r.json"))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}
	s, err = Open(BackendSQLite, filepath.Join(dir, "r.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	s.(*SQLiteStore).Close()
	if _, err := Open("redis", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	m.SetRaw([]byte("nonsense"))
	if got, _ := m.Load(); len(got) != 0 {
		t.Fatalf("expected empty list for malformed data")
	}
	if err := m.Save([]window.Config{cfg(1)}); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Load(); len(got) != 1 || m.Saves() != 1 {
		t.Fatalf("unexpected state %v saves=%d", got, m.Saves())
	}
}
