package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"composita/internal/diag"
	"composita/internal/il"
)

func TestCacheKeyDependsOnContent(t *testing.T) {
	var a, b [32]byte
	b[0] = 1
	if CacheKey(a) == CacheKey(b) {
		t.Fatal("different content, same key")
	}
	if CacheKey(a) != CacheKey(a) {
		t.Fatal("key is not stable")
	}
	if combineDigest(1, "v1", a) == combineDigest(1, "v2", a) {
		t.Fatal("compiler version is not part of the key")
	}
	if CacheKey(a).IsZero() {
		t.Fatal("key is zero")
	}
}

func TestDiskCacheMissAndDropAll(t *testing.T) {
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(CacheKey([32]byte{})); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cache.Dir()); err != nil {
		t.Fatalf("cache dir not recreated: %v", err)
	}

	var nilCache *DiskCache
	if _, ok, err := nilCache.Get(Digest{}); ok || err != nil {
		t.Fatal("nil cache must miss")
	}
	if err := nilCache.Put(Digest{}, &CachePayload{}); err != nil {
		t.Fatal(err)
	}
}

func TestCompileUsesDiskCache(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Stage: StageGenerate, Cache: cache}

	first, err := CompileSource(context.Background(), "grid.com", []byte(gridSource), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Module == nil {
		t.Fatalf("first compile: cached=%v module=%v", first.Cached, first.Module != nil)
	}

	second, err := CompileSource(context.Background(), "grid.com", []byte(gridSource), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second compile missed the cache")
	}
	if second.Builder != nil {
		t.Error("cache hit should skip parsing")
	}
	var want, got bytes.Buffer
	if err := il.DumpModule(&want, first.Module); err != nil {
		t.Fatal(err)
	}
	if err := il.DumpModule(&got, second.Module); err != nil {
		t.Fatal(err)
	}
	if want.String() != got.String() {
		t.Errorf("cached module differs:\n%s\n---\n%s", want.String(), got.String())
	}
	items := second.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.GenPartialFeature || items[0].Primary.File != second.File.ID {
		t.Errorf("cached diagnostics = %+v", items)
	}
}

func TestFailedCompileIsNotCached(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("COMPONENT A; BEGIN x := 1 END A;")
	res, err := CompileSource(context.Background(), "bad.com", src, Options{Stage: StageGenerate, Cache: cache})
	if err != nil || !res.Failed() {
		t.Fatalf("expected failed compile, err=%v", err)
	}
	if _, ok, _ := cache.Get(CacheKey(res.File.Hash)); ok {
		t.Fatal("failed compile was cached")
	}
}
