package chanx

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

var (
	// ErrReceiverClosed is wrapped by the [*SendError] returned from
	// [Sender.Send] once the receiving half has been closed.
	ErrReceiverClosed = errors.New("chanx: receiver closed")

	// ErrSenderClosed is returned by [Sender.Send] when called on a
	// sender that has already been closed.
	ErrSenderClosed = errors.New("chanx: send on closed sender")
)

// compactThreshold bounds how many consumed slots may sit at the front of
// the queue before it is compacted.
const compactThreshold = 1024

// SendError is returned by [Sender.Send] when the value could not be
// delivered. The undelivered value is handed back to the caller.
type SendError[T any] struct {
	Value T
}

func (e *SendError[T]) Error() string {
	return ErrReceiverClosed.Error() + ": value not delivered"
}

func (e *SendError[T]) Unwrap() error {
	return ErrReceiverClosed
}

// channel is the state shared by every Sender clone and the Receiver.
type channel[T any] struct {
	mu       sync.Mutex
	items    []T
	head     int
	senders  int
	rxClosed bool

	// notify wakes the single consumer; buffered so a send never blocks.
	notify chan struct{}
}

// NewChannel creates an unbounded channel and returns its sending and
// receiving halves.
//
// Sends never block: values are queued until the receiver pulls them.
// The receiver observes end-of-stream ([io.EOF]) after every sender has
// been closed and the queue is drained. Closing the receiver makes all
// later sends fail with a [*SendError] carrying the value.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	c := &channel[T]{
		senders: 1,
		notify:  make(chan struct{}, 1),
	}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

func (c *channel[T]) wake() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// pop removes the head of the queue. Must be called with mu held and a
// non-empty queue.
func (c *channel[T]) pop() T {
	var zero T
	v := c.items[c.head]
	c.items[c.head] = zero
	c.head++

	switch {
	case c.head == len(c.items):
		c.items = c.items[:0]
		c.head = 0
	case c.head >= compactThreshold && c.head*2 >= len(c.items):
		n := copy(c.items, c.items[c.head:])
		clear(c.items[n:])
		c.items = c.items[:n]
		c.head = 0
	}
	return v
}

func (c *channel[T]) queued() int {
	return len(c.items) - c.head
}

// Sender is the sending half of a channel created by [NewChannel].
// A Sender is safe for concurrent use; use [Sender.Clone] to hand an
// independent handle to another goroutine.
type Sender[T any] struct {
	c      *channel[T]
	closed atomic.Bool
}

// Send queues v for delivery. Values sent through the same Sender are
// received in the order they were sent. Send never blocks.
//
// If the receiver has been closed, Send returns a [*SendError] holding v.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() {
		return ErrSenderClosed
	}

	c := s.c
	c.mu.Lock()
	if c.rxClosed {
		c.mu.Unlock()
		return &SendError[T]{Value: v}
	}
	c.items = append(c.items, v)
	c.mu.Unlock()

	c.wake()
	return nil
}

// Clone returns a new Sender for the same channel. Every clone must be
// closed independently. Clone panics if s is already closed.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic("chanx: Clone called on closed Sender")
	}
	s.c.mu.Lock()
	s.c.senders++
	s.c.mu.Unlock()
	return &Sender[T]{c: s.c}
}

// Close releases this sending handle. It is safe to call multiple times.
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.c.mu.Lock()
	s.c.senders--
	s.c.mu.Unlock()
	s.c.wake()
}

// ReceiverClosed reports whether the receiving half has been closed.
func (s *Sender[T]) ReceiverClosed() bool {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.c.rxClosed
}

// Receiver is the receiving half of a channel created by [NewChannel].
// A Receiver has a single consumer; Next must not be called concurrently.
type Receiver[T any] struct {
	c *channel[T]
}

// Next returns the next queued value, blocking until one is available.
// It returns [io.EOF] once all senders are closed and the queue is
// drained, [ErrReceiverClosed] after [Receiver.Close], or the context
// error if ctx is done first.
func (r *Receiver[T]) Next(ctx context.Context) (T, error) {
	var zero T
	c := r.c
	for {
		c.mu.Lock()
		switch {
		case c.rxClosed:
			c.mu.Unlock()
			return zero, ErrReceiverClosed
		case c.queued() > 0:
			v := c.pop()
			c.mu.Unlock()
			return v, nil
		case c.senders == 0:
			c.mu.Unlock()
			return zero, io.EOF
		}
		c.mu.Unlock()

		select {
		case <-c.notify:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// TryNext returns the next queued value without blocking. The boolean is
// false if nothing is queued.
func (r *Receiver[T]) TryNext() (T, bool) {
	var zero T
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rxClosed || c.queued() == 0 {
		return zero, false
	}
	return c.pop(), true
}

// Len returns the number of values currently queued.
func (r *Receiver[T]) Len() int {
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queued()
}

// Close drops the receiving half. Queued values are discarded and every
// later [Sender.Send] fails with a [*SendError]. Close is idempotent.
func (r *Receiver[T]) Close() {
	c := r.c
	c.mu.Lock()
	c.rxClosed = true
	c.items = nil
	c.head = 0
	c.mu.Unlock()
	c.wake()
}
