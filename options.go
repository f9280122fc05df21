package muxstream

import (
	"io"
	"log/slog"
	"time"
)

// TaskInfo describes a routing task. It is passed to the hooks registered
// via [WithOnStart] and [WithOnDone] and attached to [*TaskError].
type TaskInfo struct {
	// Name is "demux" for a demultiplexer and "mux[<tag>]" for each
	// multiplexer input.
	Name string

	// Tags are the tags the task routes to (demux) or from (mux).
	Tags []Tag
}

type config struct {
	handler    ErrorHandler
	logger     *slog.Logger
	rest       bool
	variants   []Tag
	panicAsErr bool
	onStart    func(TaskInfo)
	onDone     func(TaskInfo, error, time.Duration)
}

// Option configures a [Demuxer] or [Muxer].
type Option func(*config)

func defaultConfig() config {
	return config{
		handler: Silent(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithErrorHandler sets the handler invoked for every failed delivery.
// The default is [Silent]. It panics if h is nil.
func WithErrorHandler(h ErrorHandler) Option {
	if h == nil {
		panic("muxstream: nil ErrorHandler")
	}
	return func(c *config) {
		c.handler = h
	}
}

// WithRest makes a demultiplexer discard values whose tag has no output,
// instead of reporting them to the error handler as [ErrUnmatched] and
// from [Group.Wait] as an [*UnmatchedError].
// It also waives the coverage check of [WithVariants].
//
// Discarding data is opt-in only; a forgotten variant is otherwise
// reported.
func WithRest() Option {
	return func(c *config) {
		c.rest = true
	}
}

// WithVariants declares the complete set of tags the routed type can
// carry. Setup then fails with [*ExhaustivenessError] when a demultiplexer
// leaves a variant without an output (unless [WithRest] is set), and with
// [ErrUnknownTag] when a route names a tag outside the set.
func WithVariants(tags ...Tag) Option {
	return func(c *config) {
		c.variants = append(c.variants[:0:0], tags...)
	}
}

// WithLogger sets the structured logger used for task lifecycle and
// delivery failures. By default nothing is logged. It panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("muxstream: nil logger")
	}
	return func(c *config) {
		c.logger = l
	}
}

// WithPanicAsError makes [Group.Wait] return a panic raised inside a
// routing task (for example by the [Panicking] handler) as a
// [*PanicError] instead of re-raising it.
func WithPanicAsError() Option {
	return func(c *config) {
		c.panicAsErr = true
	}
}

// WithOnStart registers a hook invoked on the task's goroutine when each
// routing task begins.
func WithOnStart(fn func(TaskInfo)) Option {
	return func(c *config) {
		c.onStart = fn
	}
}

// WithOnDone registers a hook invoked when each routing task finishes,
// with the task's error (nil when its input ended cleanly, a
// [*PanicError] when it panicked) and wall-clock duration.
func WithOnDone(fn func(TaskInfo, error, time.Duration)) Option {
	return func(c *config) {
		c.onDone = fn
	}
}
