package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// brokenClient returns a client whose every command fails: nothing listens
// on port 1.
func brokenClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestGetOrSetJSONBrokenCacheFallsBackToLoader(t *testing.T) {
	c := New(brokenClient())

	v, err := GetOrSetJSON(
		context.Background(),
		c,
		"k",
		time.Minute,
		func(ctx context.Context) (string, error) {
			return "authoritative", nil
		},
	)
	if err != nil {
		t.Fatalf("broken cache surfaced to the caller: %v", err)
	}
	if v != "authoritative" {
		t.Errorf("expected loader value, got %q", v)
	}
}

func TestGetOrSetJSONLoaderErrorPropagates(t *testing.T) {
	c := New(brokenClient())

	want := errors.New("store down")
	_, err := GetOrSetJSON(
		context.Background(),
		c,
		"k",
		time.Minute,
		func(ctx context.Context) (string, error) {
			return "", want
		},
	)
	if !errors.Is(err, want) {
		t.Fatalf("expected loader error, got: %v", err)
	}
}
