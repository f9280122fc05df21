package muxstream

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSetup is matched (via [errors.Is]) by every error returned from
// [Demux] and [Mux] for an invalid configuration. Setup errors are
// reported before any routing task starts or any item is consumed.
var ErrSetup = errors.New("muxstream: invalid configuration")

var (
	// ErrNoRoutes is returned when no outputs (demux) or inputs (mux)
	// are given.
	ErrNoRoutes = fmt.Errorf("%w: at least one route is required", ErrSetup)

	// ErrNilSource is returned when an input stream is nil.
	ErrNilSource = fmt.Errorf("%w: nil source", ErrSetup)

	// ErrNilRoute is returned when the routes slice contains nil.
	ErrNilRoute = fmt.Errorf("%w: nil route", ErrSetup)

	// ErrDuplicateTag is returned when two routes share a tag.
	ErrDuplicateTag = fmt.Errorf("%w: duplicate tag", ErrSetup)

	// ErrUnknownTag is returned when a route names a tag outside the
	// set declared with [WithVariants].
	ErrUnknownTag = fmt.Errorf("%w: tag not among declared variants", ErrSetup)

	// ErrRouteInUse is returned when an output is already attached to
	// another demultiplexer.
	ErrRouteInUse = fmt.Errorf("%w: route already attached", ErrSetup)
)

// ErrUnmatched is carried by a [*SendFailure] for a value whose tag has no
// output and no rest policy is configured, and matched by the
// [*UnmatchedError] that [Group.Wait] then reports.
var ErrUnmatched = errors.New("muxstream: no route for tag")

// UnmatchedError is the result of a demultiplexer's routing task when,
// without [WithRest], it met values whose tag has no output. Each of those
// values was also passed to the error handler. It matches [ErrUnmatched].
type UnmatchedError struct {
	// Tags are the unrouted tags in the order they were first seen.
	Tags []Tag

	// Count is the number of values that carried them.
	Count int64
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("muxstream: %d value(s) with unrouted tags: %s", e.Count, joinTags(e.Tags))
}

func (e *UnmatchedError) Unwrap() error {
	return ErrUnmatched
}

// ExhaustivenessError reports declared variants that a demultiplexer does
// not route. It matches [ErrSetup].
type ExhaustivenessError struct {
	Missing []Tag
}

func (e *ExhaustivenessError) Error() string {
	return fmt.Sprintf("muxstream: variants not covered: %s", joinTags(e.Missing))
}

func (e *ExhaustivenessError) Unwrap() error {
	return ErrSetup
}

func joinTags(tags []Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// SendFailure describes one value that could not be delivered. It is
// passed to the configured [ErrorHandler]; no failed value is dropped
// without the handler seeing it.
type SendFailure struct {
	// Tag is the destination tag (demux) or the input's tag (mux).
	Tag Tag

	// Value is the undelivered tagged value: the original input item for
	// a demultiplexer, the wrapped payload for a multiplexer.
	Value any

	// Err is the cause, typically wrapping chanx.ErrReceiverClosed, or
	// ErrUnmatched.
	Err error
}

func (f *SendFailure) Error() string {
	return fmt.Sprintf("muxstream: send to %q failed: %v", f.Tag, f.Err)
}

func (f *SendFailure) Unwrap() error {
	return f.Err
}
