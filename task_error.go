package muxstream

import (
	"fmt"
	"slices"
)

// TaskError attributes an error to the routing task that produced it: an
// input stream failure, an [*UnmatchedError], or a [*PanicError] under
// [WithPanicAsError]. [Group.Wait] joins one TaskError per failed task.
type TaskError struct {
	Task TaskInfo
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("routing task %q: %v", e.Task.Name, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// visitTaskErrors calls fn on each [*TaskError] in err's tree, in the
// order [errors.As] would find them, until fn returns false. The cause of
// a TaskError is not searched.
func visitTaskErrors(err error, fn func(*TaskError) bool) bool {
	switch e := err.(type) {
	case nil:
		return true
	case *TaskError:
		return fn(e)
	case interface{ Unwrap() []error }:
		for _, sub := range e.Unwrap() {
			if !visitTaskErrors(sub, fn) {
				return false
			}
		}
		return true
	case interface{ Unwrap() error }:
		return visitTaskErrors(e.Unwrap(), fn)
	}
	return true
}

func firstTaskError(err error) *TaskError {
	var first *TaskError
	visitTaskErrors(err, func(te *TaskError) bool {
		first = te
		return false
	})
	return first
}

// IsTaskError reports whether err carries a [*TaskError].
func IsTaskError(err error) bool {
	return firstTaskError(err) != nil
}

// TaskOf returns the [TaskInfo] of the first [*TaskError] in err.
func TaskOf(err error) (TaskInfo, bool) {
	if te := firstTaskError(err); te != nil {
		return te.Task, true
	}
	return TaskInfo{}, false
}

// CauseOf returns the error wrapped by the first [*TaskError] in err, or
// err itself if there is none.
func CauseOf(err error) error {
	if te := firstTaskError(err); te != nil {
		return te.Err
	}
	return err
}

// AllTaskErrors returns every [*TaskError] in err, descending into errors
// joined via [errors.Join].
func AllTaskErrors(err error) []*TaskError {
	var out []*TaskError
	visitTaskErrors(err, func(te *TaskError) bool {
		out = append(out, te)
		return true
	})
	return out
}

// TaskErrorsFor returns the [*TaskError] values in err whose task routes
// tag: the mux[tag] input task, or the demux task when tag is one of its
// outputs.
func TaskErrorsFor(err error, tag Tag) []*TaskError {
	var out []*TaskError
	visitTaskErrors(err, func(te *TaskError) bool {
		if slices.Contains(te.Task.Tags, tag) {
			out = append(out, te)
		}
		return true
	})
	return out
}
