package query

import "context"

// Future is the pending result of an asynchronous terminal query.
type Future[R any] struct {
	done   chan struct{}
	result R
	err    error
}

// Resolved returns a Future that has already completed.
func Resolved[R any](result R, err error) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	f.complete(result, err)
	return f
}

// Go runs fn on a new goroutine and returns its Future. When ctx is cancelled
// before fn returns, the Future completes with ctx's error and a zero result,
// whatever fn produced.
func Go[R any](ctx context.Context, fn func(ctx context.Context) (R, error)) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}

	go func() {
		result, err := fn(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero R
			f.complete(zero, ctxErr)
			return
		}
		f.complete(result, err)
	}()

	return f
}

func (f *Future[R]) complete(result R, err error) {
	if err != nil {
		var zero R
		result = zero
	}
	f.result = result
	f.err = err
	close(f.done)
}

// Done is closed when the Future completes.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future completes or ctx is done. If ctx is done
// first, Await returns ctx's error; the underlying work still observes its own
// context.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Result blocks until the Future completes.
func (f *Future[R]) Result() (R, error) {
	<-f.done
	return f.result, f.err
}
