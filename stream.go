package muxstream

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/baxromumarov/muxstream/chanx"
)

// Source is a pull-based input stream. Next returns [io.EOF] once the
// stream is exhausted; any other error ends the routing task reading it
// and is reported by [Group.Wait].
//
// Next should return promptly when ctx is done: that is how cancelling a
// routing group reaches a stalled input. *[Stream] and *[chanx.Receiver]
// both implement Source.
type Source[T any] interface {
	Next(ctx context.Context) (T, error)
}

// Stream is a pull-based data stream built from an iterator function.
//
// Streams are single-consumer: Next must not be called concurrently.
type Stream[T any] struct {
	next func(ctx context.Context) (T, error)
	err  error
	mu   sync.Mutex
}

// NewStream creates a stream from an iterator function.
func NewStream[T any](next func(context.Context) (T, error)) *Stream[T] {
	return &Stream[T]{
		next: next,
	}
}

// Next returns the next item in the stream, or [io.EOF] when exhausted.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	val, err := s.next(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		s.setError(err)
	}
	return val, err
}

// Err returns the first non-EOF error the stream produced.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream[T]) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// FromSlice creates a stream over items.
func FromSlice[T any](items []T) *Stream[T] {
	var idx int
	return NewStream(func(ctx context.Context) (T, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if idx >= len(items) {
			return zero, io.EOF
		}
		val := items[idx]
		idx++
		return val, nil
	})
}

// FromChan creates a stream that reads ch until it is closed.
func FromChan[T any](ch <-chan T) *Stream[T] {
	return NewStream(func(ctx context.Context) (T, error) {
		v, ok, err := chanx.Recv(ctx, ch)
		if err != nil {
			return v, err
		}
		if !ok {
			return v, io.EOF
		}
		return v, nil
	})
}

// FromFunc creates a stream from a function. It is an alias of
// [NewStream] kept for readability at call sites.
func FromFunc[T any](fn func(context.Context) (T, error)) *Stream[T] {
	return NewStream(fn)
}

// FromReceiver creates a stream that reads r until end-of-stream, which
// lets the output of one router feed another.
func FromReceiver[T any](r *chanx.Receiver[T]) *Stream[T] {
	return NewStream(r.Next)
}

// Filter returns a stream yielding only the items for which fn is true.
func (s *Stream[T]) Filter(fn func(T) bool) *Stream[T] {
	return NewStream(func(ctx context.Context) (T, error) {
		for {
			val, err := s.Next(ctx)
			if err != nil {
				return val, err
			}
			if fn(val) {
				return val, nil
			}
		}
	})
}

// Take limits the stream to n items.
func (s *Stream[T]) Take(n int) *Stream[T] {
	var idx int
	return NewStream(func(ctx context.Context) (T, error) {
		if idx >= n {
			var zero T
			return zero, io.EOF
		}
		val, err := s.Next(ctx)
		if err != nil {
			return val, err
		}
		idx++
		return val, nil
	})
}

// Map transforms a stream using fn.
// It is a function because Go methods cannot take type parameters.
func Map[A, B any](s *Stream[A], fn func(context.Context, A) (B, error)) *Stream[B] {
	return NewStream(func(ctx context.Context) (B, error) {
		val, err := s.Next(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(ctx, val)
	})
}

// ToSlice collects the remaining items into a slice.
func (s *Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	var items []T
	for {
		val, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			return items, s.Err()
		}
		if err != nil {
			return items, err
		}
		items = append(items, val)
	}
}
