// Package muxstream routes values between concurrent streams by tag.
//
// It provides two dual operations:
//
//   - [Demux] splits one stream of tagged values into one channel per tag.
//   - [Mux] merges several streams, each bound to a tag, into one channel
//     of tagged values.
//
// Channels come from the [github.com/baxromumarov/muxstream/chanx]
// subpackage. They are unbounded, so a consumer that stops reading never
// blocks a producer, and they have explicit halves: closing a
// [chanx.Receiver] makes later sends to it fail observably.
//
// # Tags
//
// A routed type implements [Tagged]. A closed sum type is usually an
// interface with one implementing type per variant:
//
//	type Event interface{ muxstream.Tagged }
//
//	type Click struct{ X, Y int }
//	type Key rune
//
//	func (Click) Tag() muxstream.Tag { return "click" }
//	func (Key) Tag() muxstream.Tag   { return "key" }
//
// Projections convert between the sum type and a variant's payload:
// [Assert] and [Convert] for interface-style sums, [PayloadOf] and [Wrap]
// for the ready-made [Value] envelope. Any func of the right shape works.
//
// # Demultiplexing
//
//	clicks := muxstream.Case("click", muxstream.Assert[Event, Click]())
//	keys := muxstream.Case("key", muxstream.Assert[Event, Key]())
//
//	d, err := muxstream.Demux(ctx, events, []muxstream.Output[Event]{clicks, keys},
//	    muxstream.WithVariants("click", "key"))
//	if err != nil {
//	    return err
//	}
//	for {
//	    c, err := clicks.Receiver().Next(ctx)
//	    ...
//	}
//
// # Multiplexing
//
//	m, err := muxstream.Mux(ctx, []muxstream.Input[Event]{
//	    muxstream.From("click", clickStream, muxstream.Convert[Click, Event]()),
//	    muxstream.From("key", keyStream, muxstream.Convert[Key, Event]()),
//	})
//	events := m.Receiver()
//
// # Errors
//
// Configuration mistakes are rejected synchronously by Demux and Mux and
// match [ErrSetup]: no routes, nil sources or routes (typed nil pointers
// included), duplicate tags, and, when the full variant set is declared
// with [WithVariants], uncovered variants ([*ExhaustivenessError]).
//
// A value that cannot be delivered because its receiver was closed is a
// [*SendFailure] passed to the [ErrorHandler]; it never stops the other
// routes. [Silent] (the default) drops the value, [Panicking] aborts the
// whole routing group, and [WithErrorHandler] installs any other policy.
// Demux reports values whose tag has no output with [ErrUnmatched] unless
// [WithRest] explicitly allows discarding them: each one goes to the
// handler, and [Group.Wait] returns an [*UnmatchedError] whatever the
// handler does with it.
//
// # Routing tasks
//
// Demux runs one goroutine; Mux runs one per input. They are tracked by a
// [Group] embedded in [Demuxer] and [Muxer]: [Group.Wait] joins them and
// returns input errors as [*TaskError] values, [Group.Cancel] stops them at
// their next pull. A panic in a task is captured with its stack and
// re-raised by Wait, or returned as a [*PanicError] with
// [WithPanicAsError].
//
// # Observability
//
// [WithLogger] attaches a [log/slog] logger (task lifecycle at debug,
// delivery failures at warn). [WithOnStart] and [WithOnDone] hook task
// lifecycle, and Metrics on Demuxer and Muxer reports routed, failed and
// discarded counts.
package muxstream
