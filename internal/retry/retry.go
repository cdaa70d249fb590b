package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrBadAttempts is returned when a caller configures fewer than one attempt.
var ErrBadAttempts = errors.New("retry: max attempts must be >= 1")

// Do invokes fn up to maxAttempts times, stopping at the first success.
// It returns the last error once attempts are exhausted, or ErrBadAttempts
// immediately for a non-positive maxAttempts.
func Do(ctx context.Context, maxAttempts int, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		return fmt.Errorf("%w: got %d", ErrBadAttempts, maxAttempts)
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return err
		}
	}

	return err
}

// Runner dispatches best-effort tasks off the caller's path: cache writes
// and denormalized fan-out updates, where losing an update is acceptable but
// failing the caller is not. A task that exhausts its attempts is logged and
// dropped, never surfaced.
type Runner struct {
	logger      *slog.Logger
	maxAttempts int
	wg          sync.WaitGroup
}

func NewRunner(logger *slog.Logger, maxAttempts int) (*Runner, error) {
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadAttempts, maxAttempts)
	}

	return &Runner{logger: logger, maxAttempts: maxAttempts}, nil
}

// Go runs fn in the background with the runner's retry budget. The task is
// detached from the caller's cancellation: the request finishing must not
// abort a cache write already in flight.
func (r *Runner) Go(ctx context.Context, task string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := Do(ctx, r.maxAttempts, fn); err != nil {
			r.logger.Warn("best-effort task gave up",
				"task", task,
				"attempts", r.maxAttempts,
				"error", err,
			)
		}
	}()
}

// Wait blocks until all dispatched tasks have finished. Used on shutdown
// and in tests; callers on the request path never wait.
func (r *Runner) Wait() {
	r.wg.Wait()
}
