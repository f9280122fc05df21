package muxstream

import "context"

// ErrorHandler is called when a routing task fails to deliver a value.
//
// It runs on the routing task's goroutine, and the task waits for it
// before pulling the next input item, so failures are handled in the
// order they occurred. ctx is the routing group's context.
type ErrorHandler func(ctx context.Context, f *SendFailure)

// Silent returns the default handler: the failed value is dropped. Any
// logger configured with [WithLogger] still records the failure.
func Silent() ErrorHandler {
	return func(context.Context, *SendFailure) {}
}

// Panicking returns a handler that panics with the [*SendFailure]. The
// panic cancels the whole routing group and is surfaced by [Group.Wait]
// as a [*PanicError]. Use it to catch undrained outputs during
// development.
func Panicking() ErrorHandler {
	return func(_ context.Context, f *SendFailure) {
		panic(f)
	}
}
