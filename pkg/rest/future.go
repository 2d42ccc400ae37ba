package rest

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is the failure carried by a Future that was cancelled before it completed.
var ErrCancelled = errors.New("invocation cancelled")

// Future is the pending result of an asynchronous invocation. Exactly one of a value or an
// error is ever set; later completions are ignored.
//
// Cancelling a Future completes it with ErrCancelled and cancels the context of the
// underlying operation. Once a request has been written to the wire the remote side effect
// may still happen: cancellation is best-effort.
type Future[T any] struct {
	done chan struct{}

	mu        sync.Mutex
	value     T
	err       error
	cancelled bool
	callbacks []func(T, error)
	onCancel  func()
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a Future already holding v.
func Completed[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.complete(v, nil)
	return f
}

// Failed returns a Future already holding err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.complete(zero, err)
	return f
}

// complete sets the outcome of the future, returning false if it was already set.
func (f *Future[T]) complete(v T, err error) bool {
	return f.settle(v, err, false)
}

func (f *Future[T]) settle(v T, err error, cancelled bool) bool {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return false
	default:
	}
	f.value, f.err, f.cancelled = v, err, cancelled
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// Done is closed once the future holds a value or an error.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get waits for the future to complete or for ctx to end. A ctx ending does not cancel the
// future itself.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel completes the future with ErrCancelled if it is still pending and asks the
// underlying operation to stop. It reports whether the future was cancelled by this call.
func (f *Future[T]) Cancel() bool {
	var zero T
	if !f.settle(zero, ErrCancelled, true) {
		return false
	}

	f.mu.Lock()
	onCancel := f.onCancel
	f.mu.Unlock()

	if onCancel != nil {
		onCancel()
	}
	return true
}

// IsCancelled reports whether Cancel won against normal completion.
func (f *Future[T]) IsCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// OnComplete registers fn to run once the future completes. If it already has, fn runs
// immediately on the calling goroutine; otherwise it runs on the goroutine that completes it.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		v, err := f.value, f.err
		f.mu.Unlock()
		fn(v, err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

func (f *Future[T]) setCancelFunc(cancel func()) {
	f.mu.Lock()
	f.onCancel = cancel
	f.mu.Unlock()
}

// Go runs fn on a new goroutine and returns its pending outcome. Cancelling the future
// cancels the context handed to fn.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture[T]()
	f.setCancelFunc(cancel)

	go func() {
		defer cancel()
		f.complete(fn(ctx))
	}()
	return f
}

// Map returns a future holding fn applied to the successful value of f. Failures pass
// through untouched. Cancelling the returned future cancels f.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := newFuture[U]()
	next.setCancelFunc(func() { f.Cancel() })

	f.OnComplete(func(v T, err error) {
		if err != nil {
			var zero U
			next.complete(zero, err)
			return
		}
		next.complete(fn(v))
	})
	return next
}

// Recover returns a future in which a failure of f is handed to parser, whose result
// becomes the outcome instead. Cancellation is never recovered.
func Recover[T any](f *Future[T], parser func(error) (T, error)) *Future[T] {
	next := newFuture[T]()
	next.setCancelFunc(func() { f.Cancel() })

	f.OnComplete(func(v T, err error) {
		if err == nil || errors.Is(err, ErrCancelled) {
			next.complete(v, err)
			return
		}
		next.complete(parser(err))
	})
	return next
}
