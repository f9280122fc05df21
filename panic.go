package muxstream

import (
	"fmt"
	"runtime"
)

// PanicError is a panic recovered from a routing task, typically raised
// by the [Panicking] handler or by a projection given a value of the
// wrong variant.
//
// Without [WithPanicAsError] the PanicError is re-raised by [Group.Wait];
// with it, Wait returns it as an error. When the panic value is a
// [*SendFailure], errors.As on the PanicError reaches it.
type PanicError struct {
	Task TaskInfo

	// Value is the value passed to panic().
	Value any

	// Stack is the routing goroutine's stack at the point of the panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("routing task %q panicked: %v\n\n%s", e.Task.Name, e.Value, e.Stack)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(info TaskInfo, v any) *PanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Task:  info,
		Value: v,
		Stack: string(buf[:n]),
	}
}
