package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

func TestDoBadAttempts(t *testing.T) {
	err := Do(context.Background(), 0, func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrBadAttempts) {
		t.Fatalf("expected ErrBadAttempts, got: %v", err)
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	var calls int
	err := Do(context.Background(), 3, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	want := errors.New("still broken")
	var calls int
	err := Do(context.Background(), 3, func(ctx context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected last error, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	err := Do(ctx, 5, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call after cancellation, got %d", calls)
	}
}

func TestRunnerSwallowsExhaustedTask(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := NewRunner(logger, 2)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	var calls atomic.Int32
	r.Go(context.Background(), "doomed", func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("always fails")
	})
	r.Wait()

	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestRunnerDetachedFromCallerCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := NewRunner(logger, 3)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	r.Go(ctx, "survivor", func(ctx context.Context) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ran.Store(true)
		return nil
	})
	r.Wait()

	if !ran.Load() {
		t.Error("task saw the caller's canceled context")
	}
}

func TestNewRunnerRejectsBadAttempts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewRunner(logger, 0); !errors.Is(err, ErrBadAttempts) {
		t.Fatalf("expected ErrBadAttempts, got: %v", err)
	}
}
