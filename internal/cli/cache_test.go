package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/stacklayout/pkg/cache"
)

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(os.Stderr, LogInfo)
	ctx := context.Background()

	nc, err := c.newCache(ctx, cacheFlags{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := nc.(cache.NullCache); !ok {
		t.Errorf("--no-cache gave %T, want cache.NullCache", nc)
	}

	fc, err := c.newCache(ctx, cacheFlags{})
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
	if _, ok := fc.(*cache.FileCache); !ok {
		t.Errorf("default cache is %T, want *cache.FileCache", fc)
	}

	s := miniredis.RunT(t)
	rc, err := c.newCache(ctx, cacheFlags{redis: s.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	if err := rc.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if !s.Exists(redisPrefix + "k") {
		t.Errorf("redis key not stored under prefix %q", redisPrefix)
	}
}

func TestCacheClearFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(os.Stderr, LogInfo)
	ctx := context.Background()

	dir, _ := cacheDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(ctx, "layout:abc", []byte("{}"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if err := c.runCacheClear(ctx, cacheFlags{}); err != nil {
		t.Fatalf("runCacheClear: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, "layout:abc"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClearEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "missing"))
	c := New(os.Stderr, LogInfo)
	if err := c.runCacheClear(context.Background(), cacheFlags{}); err != nil {
		t.Errorf("clearing a missing cache dir: %v", err)
	}
}

func TestCacheClearRedis(t *testing.T) {
	s := miniredis.RunT(t)
	s.Set(redisPrefix+"layout:1", "x")
	s.Set("other:1", "y")

	c := New(os.Stderr, LogInfo)
	if err := c.runCacheClear(context.Background(), cacheFlags{redis: s.Addr()}); err != nil {
		t.Fatalf("runCacheClear: %v", err)
	}
	if s.Exists(redisPrefix + "layout:1") {
		t.Error("prefixed key survived")
	}
	if !s.Exists("other:1") {
		t.Error("foreign key was removed")
	}
}

func TestCachePruneCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	buf := captureOut(t)

	if err := execute(t, "cache", "prune"); err != nil {
		t.Fatalf("prune without cache: %v", err)
	}

	dir, _ := cacheDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "gone", []byte("x"), time.Nanosecond)
	_ = fc.Set(ctx, "kept", []byte("y"), 0)
	time.Sleep(time.Millisecond)

	if err := execute(t, "cache", "prune"); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, "kept"); !hit {
		t.Error("unexpired entry pruned")
	}
	got := buf.String()
	for _, want := range []string{"Cache is empty", "Pruned stale entries: 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%s", want, got)
		}
	}
}
