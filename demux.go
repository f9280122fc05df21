package muxstream

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/baxromumarov/muxstream/chanx"
)

// Output is one destination of a [Demuxer]. It is implemented by
// *[Branch]; use [Case] to create one.
type Output[V any] interface {
	// Tag returns the tag routed to this output.
	Tag() Tag

	attach() bool
	detach()
	deliver(v V) error
	close()
}

// Branch is the output of a [Demuxer] for one tag. Its payload type P is
// extracted from the routed type V by the unwrap projection.
type Branch[V, P any] struct {
	tag      Tag
	unwrap   func(V) P
	attached atomic.Bool

	tx *chanx.Sender[P]
	rx *chanx.Receiver[P]
}

// Case declares the output for tag. unwrap extracts the payload from a
// value carrying that tag; see [Assert] and [PayloadOf].
// Case panics if unwrap is nil.
func Case[V, P any](tag Tag, unwrap func(V) P) *Branch[V, P] {
	if unwrap == nil {
		panic("muxstream: Case requires non-nil unwrap")
	}
	return &Branch[V, P]{tag: tag, unwrap: unwrap}
}

// Tag implements [Output].
func (b *Branch[V, P]) Tag() Tag {
	return b.tag
}

// Receiver returns the channel receiving this tag's payloads, in input
// order. It is nil until the branch is attached by a successful [Demux].
//
// The caller owns the receiver. Closing it makes every later value for
// this tag a failed delivery, reported to the error handler; other tags
// are unaffected.
func (b *Branch[V, P]) Receiver() *chanx.Receiver[P] {
	return b.rx
}

func (b *Branch[V, P]) attach() bool {
	if !b.attached.CompareAndSwap(false, true) {
		return false
	}
	b.tx, b.rx = chanx.NewChannel[P]()
	return true
}

func (b *Branch[V, P]) detach() {
	b.tx, b.rx = nil, nil
	b.attached.Store(false)
}

func (b *Branch[V, P]) deliver(v V) error {
	return b.tx.Send(b.unwrap(v))
}

func (b *Branch[V, P]) close() {
	b.tx.Close()
}

// Demuxer splits one stream of tagged values into one channel per tag.
// It runs a single routing task; the methods of [Group] wait for and
// cancel it.
type Demuxer[V Tagged] struct {
	*router

	outputs []Output[V]
	routes  map[Tag]Output[V]

	// Owned by the routing task.
	unmatched      []Tag
	unmatchedSeen  map[Tag]struct{}
	unmatchedCount int64
}

// Demux starts demultiplexing input into outputs and returns without
// blocking.
//
// One routing task pulls input one item at a time and sends each item's
// payload to the output registered for its tag, so every output sees its
// payloads in input order. Outputs are independent: an output that is
// never drained only grows its own queue.
//
// A delivery failure (the output's receiver was closed) is passed to the
// error handler as a [*SendFailure] carrying the original value, and the
// task waits for the handler before pulling the next item. A value whose
// tag has no output is discarded when [WithRest] is set. Otherwise it is
// passed to the handler with [ErrUnmatched], routing goes on, and
// [Group.Wait] returns an [*UnmatchedError] listing the unrouted tags
// whatever the handler did.
//
// When input ends, or ctx is cancelled, every output channel is closed.
// Setup errors match [ErrSetup] and are returned before input is touched.
func Demux[V Tagged](
	ctx context.Context,
	input Source[V],
	outputs []Output[V],
	opts ...Option,
) (*Demuxer[V], error) {
	cfg := newConfig(opts)

	if len(outputs) == 0 {
		return nil, ErrNoRoutes
	}
	if isNil(input) {
		return nil, ErrNilSource
	}

	tags := make([]Tag, len(outputs))
	routes := make(map[Tag]Output[V], len(outputs))
	for i, o := range outputs {
		if isNil(o) {
			return nil, ErrNilRoute
		}
		tags[i] = o.Tag()
		routes[o.Tag()] = o
	}
	if err := checkTags(tags, cfg); err != nil {
		return nil, err
	}
	if err := checkCoverage(tags, cfg); err != nil {
		return nil, err
	}
	for i, o := range outputs {
		if !o.attach() {
			for _, prev := range outputs[:i] {
				prev.detach()
			}
			return nil, ErrRouteInUse
		}
	}

	d := &Demuxer[V]{
		router:  newRouter(ctx, cfg),
		outputs: append([]Output[V](nil), outputs...),
		routes:  routes,
	}
	d.spawn(TaskInfo{Name: "demux", Tags: tags}, func(ctx context.Context) error {
		return d.run(ctx, input)
	})
	d.seal()

	return d, nil
}

func (d *Demuxer[V]) run(ctx context.Context, input Source[V]) error {
	defer func() {
		for _, o := range d.outputs {
			o.close()
		}
	}()

	for {
		v, err := input.Next(ctx)
		if err != nil {
			return d.result(endOfInput(err))
		}
		d.dispatch(ctx, v)
	}
}

// result adds the unmatched-tag report, if any, to the error that ended
// the input.
func (d *Demuxer[V]) result(err error) error {
	if d.unmatchedCount == 0 {
		return err
	}
	ue := &UnmatchedError{Tags: d.unmatched, Count: d.unmatchedCount}
	if err == nil {
		return ue
	}
	return errors.Join(err, ue)
}

func (d *Demuxer[V]) dispatch(ctx context.Context, v V) {
	tag := v.Tag()
	out, ok := d.routes[tag]
	if !ok {
		if d.cfg.rest {
			d.discard(tag)
			return
		}
		d.recordUnmatched(tag)
		d.fail(ctx, &SendFailure{Tag: tag, Value: v, Err: ErrUnmatched})
		return
	}

	if err := out.deliver(v); err != nil {
		d.fail(ctx, &SendFailure{Tag: tag, Value: v, Err: err})
		return
	}
	d.routed.Add(1)
}

func (d *Demuxer[V]) recordUnmatched(tag Tag) {
	d.unmatchedCount++
	if _, ok := d.unmatchedSeen[tag]; ok {
		return
	}
	if d.unmatchedSeen == nil {
		d.unmatchedSeen = make(map[Tag]struct{})
	}
	d.unmatchedSeen[tag] = struct{}{}
	d.unmatched = append(d.unmatched, tag)
}

// Outputs returns the outputs in the order they were declared.
func (d *Demuxer[V]) Outputs() []Output[V] {
	return append([]Output[V](nil), d.outputs...)
}

// Tags returns the routed tags in declaration order.
func (d *Demuxer[V]) Tags() []Tag {
	tags := make([]Tag, len(d.outputs))
	for i, o := range d.outputs {
		tags[i] = o.Tag()
	}
	return tags
}
