package chanx

import "context"

// Send sends v on a native Go channel, giving up if ctx is done first.
// It returns nil on success or the context error.
func Send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv receives from a native Go channel, giving up if ctx is done first.
// The boolean is false when ch has been closed.
func Recv[T any](ctx context.Context, ch <-chan T) (T, bool, error) {
	select {
	case v, ok := <-ch:
		return v, ok, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}
