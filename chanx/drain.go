package chanx

import (
	"context"
	"errors"
	"io"
)

// OrDone bridges r into a native Go channel so it can be used in select
// statements and range loops. The returned channel is closed when r
// reaches end-of-stream, r is closed, or ctx is done.
//
// The bridging goroutine exits promptly on cancellation.
func OrDone[T any](ctx context.Context, r *Receiver[T]) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			v, err := r.Next(ctx)
			if err != nil {
				return
			}
			if Send(ctx, out, v) != nil {
				return
			}
		}
	}()
	return out
}

// Drain discards values from r until end-of-stream. It returns the number
// of values discarded.
func Drain[T any](r *Receiver[T]) int {
	var n int
	for {
		if _, err := r.Next(context.Background()); err != nil {
			return n
		}
		n++
	}
}

// Collect gathers every value from r until end-of-stream. On
// cancellation it returns the values gathered so far together with the
// context error.
func Collect[T any](ctx context.Context, r *Receiver[T]) ([]T, error) {
	var out []T
	for {
		v, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}
