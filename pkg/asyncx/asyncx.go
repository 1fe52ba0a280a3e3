package asyncx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abraxas-365/passport/pkg/logx"
)

// ─── Fire and forget ─────────────────────────────────────────────────────────

// Go runs fn on a new goroutine with a context detached from ctx's
// cancellation but carrying its values (request id, caller). The work is
// bounded by timeout when timeout > 0. Panics are recovered and logged.
func Go(ctx context.Context, timeout time.Duration, name string, fn func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx := detached
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		defer func() {
			if r := recover(); r != nil {
				logx.WithContext(ctx).WithField("task", name).Errorf("asyncx: task panicked: %v", r)
			}
		}()

		if err := fn(ctx); err != nil {
			logx.WithContext(ctx).WithField("task", name).WithError(err).Warn("asyncx: task failed")
		}
	}()
}

// ─── AllSettled ──────────────────────────────────────────────────────────────

// Result holds the outcome of a single settled async operation.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the result carries no error.
func (r Result[T]) OK() bool { return r.Err == nil }

// AllSettled runs all fns concurrently and waits for every one to finish.
// It always returns one Result per fn, in input order.
func AllSettled[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))

	for i, fn := range fns {
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i].Err = fmt.Errorf("asyncx: panic: %v", r)
				}
			}()
			v, err := fn(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// ─── Retry ───────────────────────────────────────────────────────────────────

// RetryWithBackoff calls fn up to attempts times with exponential backoff
// starting at initialDelay. Respects context cancellation between retries.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		zero  T
		err   error
		val   T
		delay = initialDelay
	)
	for i := range max(attempts, 1) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return zero, err
}
