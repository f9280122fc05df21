package muxstream

import "fmt"

// Tag identifies one variant of a tagged value and, within one
// [Demuxer] or [Muxer], the channel bound to it.
type Tag string

// Tagged is implemented by the values a [Demuxer] routes. A closed sum
// type is typically modelled as an interface with one implementing type
// per variant, each returning its own constant tag.
type Tagged interface {
	Tag() Tag
}

// Value is a ready-made [Tagged] envelope for callers that do not declare
// their own sum type.
type Value struct {
	Label   Tag
	Payload any
}

// Tag implements [Tagged].
func (v Value) Tag() Tag {
	return v.Label
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.Label, v.Payload)
}

// Of builds a [Value].
func Of(tag Tag, payload any) Value {
	return Value{Label: tag, Payload: payload}
}

// Assert returns an unwrap projection that extracts the variant type P
// from the sum type V by type assertion. It panics on a value that is not
// a P, which only happens when a variant reports another variant's tag.
func Assert[V, P any]() func(V) P {
	return func(v V) P {
		return any(v).(P)
	}
}

// Convert returns a wrap projection that turns the variant type P into
// the sum type V. P must implement V.
func Convert[P, V any]() func(P) V {
	return func(p P) V {
		return any(p).(V)
	}
}

// PayloadOf returns an unwrap projection for [Value] envelopes that
// asserts the payload to P.
func PayloadOf[P any]() func(Value) P {
	return func(v Value) P {
		return v.Payload.(P)
	}
}

// Wrap returns a wrap projection that places payloads into [Value]
// envelopes labelled tag.
func Wrap[P any](tag Tag) func(P) Value {
	return func(p P) Value {
		return Value{Label: tag, Payload: p}
	}
}
