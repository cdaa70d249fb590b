package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/retry"
)

// KV is the keyed TTL cache the decorator writes through to. Entry expiry is
// the cache's responsibility, not the decorator's.
type KV interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, val string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Source is the authoritative keyed store being decorated.
type Source[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, error)
	Put(ctx context.Context, key K, val V) error
	Delete(ctx context.Context, key K) error
}

// Repository decorates a Source with a best-effort cache. Reads try the
// cache first and fall back to the source; writes always go to the source
// synchronously. All cache traffic after the source answered runs in the
// background with a bounded retry budget, so a broken cache slows nothing
// down and fails nothing.
type Repository[K comparable, V any] struct {
	src   Source[K, V]
	kv    KV
	keyFn func(K) string
	ttl   time.Duration
	tasks *retry.Runner
}

func New[K comparable, V any](
	src Source[K, V],
	kv KV,
	keyFn func(K) string,
	ttl time.Duration,
	tasks *retry.Runner,
) *Repository[K, V] {
	return &Repository[K, V]{
		src:   src,
		kv:    kv,
		keyFn: keyFn,
		ttl:   ttl,
		tasks: tasks,
	}
}

// Get returns the cached value on a hit without touching the source. On a
// miss it reads the source and schedules a non-blocking cache population;
// the caller's result never waits on the cache write.
func (r *Repository[K, V]) Get(ctx context.Context, key K) (V, error) {
	ck := r.keyFn(key)

	if s, ok, err := r.kv.GetString(ctx, ck); err == nil && ok {
		var v V
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v, nil
		}
		// Undecodable entry: drop it and fall through to the source.
		r.tasks.Go(ctx, "cache drop "+ck, func(ctx context.Context) error {
			return r.kv.Del(ctx, ck)
		})
	}

	v, err := r.src.Get(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	r.tasks.Go(ctx, "cache populate "+ck, func(ctx context.Context) error {
		return r.set(ctx, ck, v)
	})

	return v, nil
}

// Put writes through to the source and schedules a best-effort cache
// overwrite of the new value.
func (r *Repository[K, V]) Put(ctx context.Context, key K, val V) error {
	if err := r.src.Put(ctx, key, val); err != nil {
		return err
	}

	ck := r.keyFn(key)
	r.tasks.Go(ctx, "cache overwrite "+ck, func(ctx context.Context) error {
		return r.set(ctx, ck, val)
	})

	return nil
}

// Delete removes from the source and schedules a best-effort invalidation.
func (r *Repository[K, V]) Delete(ctx context.Context, key K) error {
	if err := r.src.Delete(ctx, key); err != nil {
		return err
	}

	ck := r.keyFn(key)
	r.tasks.Go(ctx, "cache invalidate "+ck, func(ctx context.Context) error {
		return r.kv.Del(ctx, ck)
	})

	return nil
}

func (r *Repository[K, V]) set(ctx context.Context, ck string, val V) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return r.kv.SetString(ctx, ck, string(b), r.ttl)
}
