package edge

import (
	"path/filepath"
	"testing"
	"time"
)

func testProvider(t *testing.T, p Provider) {
	t.Helper()

	if _, ok, err := p.Get("a"); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	if err := p.Put("a", time.Now().Add(time.Minute), []byte("fresh")); err != nil {
		t.Fatal(err)
	}
	if b, ok, err := p.Get("a"); !ok || err != nil || string(b) != "fresh" {
		t.Fatalf("fresh entry: b=%s ok=%v err=%v", b, ok, err)
	}

	if err := p.Put("b", time.Now().Add(-time.Minute), []byte("stale")); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := p.Get("b"); ok {
		t.Fatal("stale entry returned")
	}

	keys := make(map[string]bool)
	p.Keys(func(k string) { keys[k] = true })
	if !keys["a"] {
		t.Fatalf("keys: %v", keys)
	}

	p.Purge("a")
	if _, ok, _ := p.Get("a"); ok {
		t.Fatal("purged entry returned")
	}
}

func TestMemCache(t *testing.T) {
	testProvider(t, NewMemCache())
}

func TestSQLiteCache(t *testing.T) {
	p, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	testProvider(t, p)
}
