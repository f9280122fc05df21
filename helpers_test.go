package muxstream_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/baxromumarov/muxstream"
	"github.com/baxromumarov/muxstream/chanx"
)

// Event is the sum type used throughout the tests: A(int), B(float64),
// C(string).
type Event interface {
	muxstream.Tagged
}

type A int
type B float64
type C string

func (A) Tag() muxstream.Tag { return "A" }
func (B) Tag() muxstream.Tag { return "B" }
func (C) Tag() muxstream.Tag { return "C" }

// D is a variant no test routes explicitly.
type D struct{}

func (D) Tag() muxstream.Tag { return "D" }

func scenario() []Event {
	return []Event{A(123), B(24.24), C("Hello"), C("ABC"), A(811)}
}

// stalled is a source that never yields; it only returns when ctx ends.
func stalled[T any]() *muxstream.Stream[T] {
	return muxstream.FromFunc(func(ctx context.Context) (T, error) {
		<-ctx.Done()
		var zero T
		return zero, ctx.Err()
	})
}

// gated yields items one by one, each only after a token is sent on the
// returned channel.
func gated[T any](items []T) (*muxstream.Stream[T], chan<- struct{}) {
	gate := make(chan struct{})
	idx := 0
	s := muxstream.FromFunc(func(ctx context.Context) (T, error) {
		var zero T
		if idx >= len(items) {
			return zero, io.EOF
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		v := items[idx]
		idx++
		return v, nil
	})
	return s, gate
}

// collect drains r with a test deadline.
func collect[T any](t *testing.T, r *chanx.Receiver[T]) []T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := chanx.Collect(ctx, r)
	if err != nil {
		t.Fatalf("collect: %v (got %v so far)", err, got)
	}
	return got
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}
