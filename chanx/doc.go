// Package chanx provides the unbounded channel used to route values
// between goroutines, plus context-aware helpers around it.
//
// Native Go channels have a fixed capacity: a consumer that stops reading
// eventually blocks every producer feeding it. The channel created by
// [NewChannel] is unbounded instead, so a stalled consumer never stalls a
// producer, and it has explicit halves:
//
//   - [Sender]: never blocks; may be cloned for other goroutines with
//     [Sender.Clone]; each clone is closed independently.
//   - [Receiver]: single consumer; [Receiver.Next] returns [io.EOF] once
//     every sender is closed and the queue is drained.
//
// Closing the receiver is observable: later sends fail with a
// [*SendError] carrying the undelivered value rather than succeeding
// silently.
//
// Helpers:
//
//   - [Send] and [Recv]: context-aware send and receive on native channels.
//   - [OrDone]: bridges a [Receiver] into a native channel.
//   - [Drain]: discards remaining values.
//   - [Collect]: gathers every value until end-of-stream.
package chanx
