package muxstream

import (
	"context"
	"fmt"

	"github.com/baxromumarov/muxstream/chanx"
)

// Input is one source of a [Muxer]. It is implemented by *[Feed]; use
// [From] to create one.
type Input[V any] interface {
	// Tag returns the tag the input's values are wrapped with.
	Tag() Tag

	valid() bool
	next(ctx context.Context) (V, error)
}

// Feed binds an input stream of payloads P to a tag of the combined
// type V.
type Feed[V, P any] struct {
	tag  Tag
	src  Source[P]
	wrap func(P) V
}

// From declares an input of a [Muxer]: every payload pulled from src is
// wrapped into V with wrap; see [Convert] and [Wrap].
// From panics if wrap is nil.
func From[V, P any](tag Tag, src Source[P], wrap func(P) V) *Feed[V, P] {
	if wrap == nil {
		panic("muxstream: From requires non-nil wrap")
	}
	return &Feed[V, P]{tag: tag, src: src, wrap: wrap}
}

// Tag implements [Input].
func (f *Feed[V, P]) Tag() Tag {
	return f.tag
}

func (f *Feed[V, P]) valid() bool {
	return !isNil(f.src)
}

func (f *Feed[V, P]) next(ctx context.Context) (V, error) {
	p, err := f.src.Next(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	return f.wrap(p), nil
}

// Muxer merges several tagged input streams into one channel. It runs one
// routing task per input; the methods of [Group] wait for and cancel them.
type Muxer[V any] struct {
	*router

	tags []Tag
	rx   *chanx.Receiver[V]
}

// Mux starts multiplexing inputs into a single channel and returns
// without blocking.
//
// Each input gets its own routing task and its own clone of the shared
// sender, so an input that stalls delays nobody else, and the receiver
// yields values as soon as any input produces them. Values from one input
// keep their order; values from different inputs interleave in arrival
// order.
//
// When the receiver has been closed, each further value is passed to the
// error handler as a [*SendFailure] carrying the input's tag and the
// wrapped value. The receiver reports end-of-stream once every input has
// ended. Setup errors match [ErrSetup].
func Mux[V any](ctx context.Context, inputs []Input[V], opts ...Option) (*Muxer[V], error) {
	cfg := newConfig(opts)

	if len(inputs) == 0 {
		return nil, ErrNoRoutes
	}
	tags := make([]Tag, len(inputs))
	for i, in := range inputs {
		if isNil(in) {
			return nil, ErrNilRoute
		}
		if !in.valid() {
			return nil, fmt.Errorf("%w for tag %q", ErrNilSource, in.Tag())
		}
		tags[i] = in.Tag()
	}
	if err := checkTags(tags, cfg); err != nil {
		return nil, err
	}

	tx, rx := chanx.NewChannel[V]()
	// Clone every sender before any task can close the original.
	senders := make([]*chanx.Sender[V], len(inputs))
	senders[0] = tx
	for i := 1; i < len(inputs); i++ {
		senders[i] = tx.Clone()
	}

	m := &Muxer[V]{
		router: newRouter(ctx, cfg),
		tags:   tags,
		rx:     rx,
	}
	for i, in := range inputs {
		in, tx := in, senders[i]
		info := TaskInfo{
			Name: fmt.Sprintf("mux[%s]", in.Tag()),
			Tags: []Tag{in.Tag()},
		}
		m.spawn(info, func(ctx context.Context) error {
			return m.forward(ctx, in, tx)
		})
	}
	m.seal()

	return m, nil
}

func (m *Muxer[V]) forward(ctx context.Context, in Input[V], tx *chanx.Sender[V]) error {
	defer tx.Close()

	tag := in.Tag()
	for {
		v, err := in.next(ctx)
		if err != nil {
			return endOfInput(err)
		}
		if err := tx.Send(v); err != nil {
			m.fail(ctx, &SendFailure{Tag: tag, Value: v, Err: err})
			continue
		}
		m.routed.Add(1)
	}
}

// Receiver returns the combined output channel. The caller owns it.
func (m *Muxer[V]) Receiver() *chanx.Receiver[V] {
	return m.rx
}

// Tags returns the input tags in declaration order.
func (m *Muxer[V]) Tags() []Tag {
	return append([]Tag(nil), m.tags...)
}
