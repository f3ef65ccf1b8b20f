package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func init() {
	retryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get() = %q, %v, want miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h1))
	}

	a, err := HashJSON(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("HashJSON: %v", err)
	}
	b, _ := HashJSON(map[string]int{"b": 2, "a": 1})
	if a != b {
		t.Error("HashJSON should not depend on map insertion order")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON(chan) should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 176, Height: 46})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 200, Height: 46})
	if lk1 == lk2 {
		t.Error("different LayoutKeyOpts should produce different keys")
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{Width: 176, Height: 46}) {
		t.Error("LayoutKey should be deterministic")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey() = %q, want layout: prefix", lk1)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey() = %q, want artifact: prefix", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	want := "staging:" + inner.LayoutKey("h", LayoutKeyOpts{})
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); got != want {
		t.Errorf("LayoutKey() = %q, want %q", got, want)
	}
	want = "staging:" + inner.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}); got != want {
		t.Errorf("ArtifactKey() = %q, want %q", got, want)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "p:layout:") {
		t.Errorf("LayoutKey() with nil inner = %q", got)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = %v, %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "b", []byte("beta"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Errorf("Get(a) = %q, %v, %v, want alpha", data, hit, err)
	}

	now = now.Add(2 * time.Hour)
	u, err := c.Usage()
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if u.Entries != 2 || u.Expired != 1 || u.Bytes == 0 {
		t.Errorf("Usage() = %+v, want 2 entries, 1 expired", u)
	}

	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("expired entry should be a miss")
	}
	if data, hit, _ := c.Get(ctx, "b"); !hit || string(data) != "beta" {
		t.Errorf("Get(b) = %q, %v, want beta without expiry", data, hit)
	}

	if err := c.Delete(ctx, "b"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "b"); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("deleted entry should be a miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get(corrupt) = %v, %v, want miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCachePruneAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	c.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		ttl := time.Duration(0)
		if k == "a" {
			ttl = time.Minute
		}
		if err := c.Set(ctx, k, []byte(k), ttl); err != nil {
			t.Fatal(err)
		}
	}
	now = now.Add(time.Hour)

	removed, err := c.Prune()
	if err != nil || removed != 1 {
		t.Errorf("Prune() = %d, %v, want 1", removed, err)
	}
	removed, err = c.Clear()
	if err != nil || removed != 2 {
		t.Errorf("Clear() = %d, %v, want 2", removed, err)
	}
	u, _ := c.Usage()
	if u.Entries != 0 {
		t.Errorf("Usage().Entries = %d after Clear, want 0", u.Entries)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	type doc struct{ Name string }
	if err := GetJSON(ctx, c, "k", &doc{}); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON(missing) = %v, want ErrCacheMiss", err)
	}
	if err := SetJSON(ctx, c, "k", doc{Name: "approve"}, time.Hour); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got doc
	if err := GetJSON(ctx, c, "k", &got); err != nil || got.Name != "approve" {
		t.Errorf("GetJSON() = %+v, %v", got, err)
	}

	if err := c.Set(ctx, "bad", []byte("[1,2"), 0); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "bad", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON(undecodable) = %v, want ErrCacheMiss", err)
	}
	if err := GetJSON(ctx, NewNullCache(), "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON(null cache) = %v, want ErrCacheMiss", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrUnavailable.Error())
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"non-retryable", 5, false, 1, true},
		{"retry once", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.retryable {
					return Retryable(ErrUnavailable)
				}
				return ErrCacheMiss
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, RedisOptions{}); err == nil {
		t.Error("NewRedisCache without address should fail")
	}

	// Port 1 is reserved and refuses connections.
	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache(unreachable) = %v, want ErrUnavailable", err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("PROCMAP_TEST_REDIS")
	if addr == "" {
		t.Skip("PROCMAP_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "procmap-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should be a miss")
	}
}
