// Package async provides future-based execution for fire-and-forget work
// whose result callers may still need to observe, such as session
// revalidation that must not block application startup.
//
//	future := async.Exec(ctx, func(ctx context.Context) error {
//		return revalidate(ctx)
//	})
//	// ... render immediately, then optionally:
//	if err := future.AwaitWithTimeout(5 * time.Second); err != nil {
//		log.Warn("revalidation did not finish", logger.Error(err))
//	}
package async

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when AwaitWithTimeout exceeds its duration before
// the function completes. The function keeps running; only the wait stops.
var ErrTimeout = errors.New("async: await timed out")

// Future represents an in-flight asynchronous function call.
type Future struct {
	err  error
	done chan struct{}
}

// Exec runs fn in a new goroutine and returns a Future for its result.
// A pre-canceled context short-circuits without invoking fn.
func Exec(ctx context.Context, fn func(context.Context) error) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx)
	}()

	return f
}

// Await blocks until the function completes and returns its error.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout waits for completion up to the given duration, returning
// ErrTimeout if the function is still running when it elapses.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports without blocking whether the function has finished.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
