package cache

import (
	"testing"
	"time"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("search", "raft consensus")
	b := Key("search", "raft consensus")
	if a != b {
		t.Errorf("Expected identical keys, got %q and %q", a, b)
	}
	if Key("page", "raft consensus") == a {
		t.Error("Expected namespaces to produce distinct keys")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key("page", "https://example.com/article")

	if _, found := c.Get(key); found {
		t.Fatal("Expected miss before set")
	}
	if err := c.Set(key, []byte("page text"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "page text" {
		t.Errorf("Expected stored value back, got %q (found=%v)", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key("search", "expired query")

	if err := c.Set(key, []byte("stale"), time.Nanosecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer directly, as a previous run would have
	disk := NewDiskCache(dir, time.Hour)
	key := Key("search", "previous run query")
	if err := disk.Set(key, []byte("cached hits"), 0); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Hour)
	val, found := layered.Get(key)
	if !found || string(val) != "cached hits" {
		t.Fatalf("Expected disk hit through the layered cache, got %q (found=%v)", val, found)
	}

	// Now present in the memory layer too
	if _, found := layered.hot.Get(key); !found {
		t.Error("Expected disk hit promoted to memory")
	}
}
