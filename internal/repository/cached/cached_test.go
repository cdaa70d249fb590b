package cached

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/repository"
	"github.com/matchpoint-app/matchpoint/internal/retry"
)

type mockSource struct {
	mu       sync.Mutex
	data     map[string]string
	getCalls int
}

func newMockSource() *mockSource {
	return &mockSource{data: make(map[string]string)}
}

func (m *mockSource) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	v, ok := m.data[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (m *mockSource) Put(ctx context.Context, key, val string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	return nil
}

func (m *mockSource) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.data, key)
	return nil
}

type mockKV struct {
	mu     sync.Mutex
	data   map[string]string
	broken bool
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string]string)}
}

func (m *mockKV) GetString(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken {
		return "", false, errors.New("cache down")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockKV) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken {
		return errors.New("cache down")
	}
	m.data[key] = val
	return nil
}

func (m *mockKV) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken {
		return errors.New("cache down")
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mockKV) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func newTestRepo(t *testing.T, src *mockSource, kv *mockKV) (*Repository[string, string], *retry.Runner) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tasks, err := retry.NewRunner(logger, 2)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	keyFn := func(k string) string { return "test:" + k }
	return New[string, string](src, kv, keyFn, time.Minute, tasks), tasks
}

func TestGetMissReadsSourceAndPopulates(t *testing.T) {
	src := newMockSource()
	src.data["alice"] = "v1"
	kv := newMockKV()
	repo, tasks := newTestRepo(t, src, kv)

	v, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "v1" {
		t.Errorf("expected v1, got %q", v)
	}

	tasks.Wait()
	if cached, ok := kv.get("test:alice"); !ok || cached != `"v1"` {
		t.Errorf("expected cache populated with %q, got %q (present=%v)", `"v1"`, cached, ok)
	}
}

func TestGetHitSkipsSource(t *testing.T) {
	src := newMockSource()
	kv := newMockKV()
	kv.data["test:alice"] = `"cached"`
	repo, _ := newTestRepo(t, src, kv)

	v, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "cached" {
		t.Errorf("expected cached value, got %q", v)
	}
	if src.getCalls != 0 {
		t.Errorf("source touched on a cache hit: %d calls", src.getCalls)
	}
}

func TestGetUndecodableEntryFallsThrough(t *testing.T) {
	src := newMockSource()
	src.data["alice"] = "fresh"
	kv := newMockKV()
	kv.data["test:alice"] = `{garbage`
	repo, tasks := newTestRepo(t, src, kv)

	v, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "fresh" {
		t.Errorf("expected source value, got %q", v)
	}

	tasks.Wait()
	if cached, _ := kv.get("test:alice"); cached == `{garbage` {
		t.Error("undecodable entry survived")
	}
}

func TestGetMissNotFoundStaysTransparent(t *testing.T) {
	src := newMockSource()
	kv := newMockKV()
	repo, _ := newTestRepo(t, src, kv)

	_, err := repo.Get(context.Background(), "nobody")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestBrokenCacheNeverFailsReads(t *testing.T) {
	src := newMockSource()
	src.data["alice"] = "v1"
	kv := newMockKV()
	kv.broken = true
	repo, tasks := newTestRepo(t, src, kv)

	v, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get with broken cache: %v", err)
	}
	if v != "v1" {
		t.Errorf("expected v1, got %q", v)
	}
	tasks.Wait()
}

func TestPutWritesThroughAndOverwritesCache(t *testing.T) {
	src := newMockSource()
	kv := newMockKV()
	kv.data["test:alice"] = `"stale"`
	repo, tasks := newTestRepo(t, src, kv)

	if err := repo.Put(context.Background(), "alice", "v2"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if src.data["alice"] != "v2" {
		t.Errorf("source not written: %q", src.data["alice"])
	}

	tasks.Wait()
	if cached, _ := kv.get("test:alice"); cached != `"v2"` {
		t.Errorf("expected cache overwritten with %q, got %q", `"v2"`, cached)
	}
}

func TestDeleteRemovesSourceAndInvalidates(t *testing.T) {
	src := newMockSource()
	src.data["alice"] = "v1"
	kv := newMockKV()
	kv.data["test:alice"] = `"v1"`
	repo, tasks := newTestRepo(t, src, kv)

	if err := repo.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	tasks.Wait()
	if _, ok := kv.get("test:alice"); ok {
		t.Error("cache entry survived delete")
	}

	if _, err := repo.Get(context.Background(), "alice"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
}
