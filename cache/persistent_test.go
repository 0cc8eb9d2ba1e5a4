package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, compression bool) (*PersistentCache, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "cache.db")
	pc, err := NewPersistentCache(dbPath, compression)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { pc.Close() })
	return pc, dbPath
}

func TestPersistentCache_SetGet(t *testing.T) {
	for _, compression := range []bool{false, true} {
		pc, _ := newTestCache(t, compression)

		if err := pc.Set("genius_lyrics:unpeeled", "Hello there", time.Hour); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, ok := pc.Get("genius_lyrics:unpeeled")
		if !ok {
			t.Fatalf("Expected key to be found (compression=%v)", compression)
		}
		if value != "Hello there" {
			t.Errorf("Expected %q, got %q (compression=%v)", "Hello there", value, compression)
		}
	}
}

func TestPersistentCache_Miss(t *testing.T) {
	pc, _ := newTestCache(t, false)

	if _, ok := pc.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestPersistentCache_Expiration(t *testing.T) {
	pc, _ := newTestCache(t, false)

	current := time.Now()
	pc.now = func() time.Time { return current }

	if err := pc.Set("short", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := pc.Set("forever", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	current = current.Add(2 * time.Minute)

	if _, ok := pc.Get("short"); ok {
		t.Error("Expected expired key to be a miss")
	}
	if _, ok := pc.Get("forever"); !ok {
		t.Error("Expected key without TTL to survive")
	}
}

func TestPersistentCache_PurgeExpired(t *testing.T) {
	pc, _ := newTestCache(t, false)

	current := time.Now()
	pc.now = func() time.Time { return current }

	pc.Set("a", "1", time.Second)
	pc.Set("b", "2", time.Second)
	pc.Set("c", "3", time.Hour)

	current = current.Add(time.Minute)

	removed := pc.PurgeExpired()
	if removed != 2 {
		t.Errorf("Expected 2 purged keys, got %d", removed)
	}

	numKeys, _ := pc.Stats()
	if numKeys != 1 {
		t.Errorf("Expected 1 key left, got %d", numKeys)
	}
}

func TestPersistentCache_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	pc, err := NewPersistentCache(dbPath, true)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	if err := pc.Set("key", "persisted value", time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	pc.Close()

	reopened, err := NewPersistentCache(dbPath, true)
	if err != nil {
		t.Fatalf("Failed to reopen cache: %v", err)
	}
	defer reopened.Close()

	value, ok := reopened.Get("key")
	if !ok || value != "persisted value" {
		t.Errorf("Expected persisted value, got %q (found=%v)", value, ok)
	}
}

func TestPersistentCache_DeleteAndClear(t *testing.T) {
	pc, _ := newTestCache(t, false)

	pc.Set("a", "1", 0)
	pc.Set("b", "2", 0)

	if err := pc.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := pc.Get("a"); ok {
		t.Error("Expected deleted key to be gone")
	}

	if err := pc.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	numKeys, _ := pc.Stats()
	if numKeys != 0 {
		t.Errorf("Expected empty cache after Clear, got %d keys", numKeys)
	}

	// Cache remains usable after Clear
	if err := pc.Set("c", "3", 0); err != nil {
		t.Fatalf("Set after Clear failed: %v", err)
	}
}

func TestPersistentCache_Range(t *testing.T) {
	pc, _ := newTestCache(t, false)

	pc.Set("x", "1", 0)
	pc.Set("y", "2", 0)

	seen := map[string]string{}
	pc.Range(func(key string, entry CacheEntry) bool {
		seen[key] = entry.Value
		return true
	})

	if len(seen) != 2 || seen["x"] != "1" || seen["y"] != "2" {
		t.Errorf("Unexpected range result: %v", seen)
	}
}
