package muxstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync/atomic"
)

// Metrics is a point-in-time snapshot of a router's delivery counters.
type Metrics struct {
	// Routed counts values delivered to a channel.
	Routed int64
	// Failed counts values handed to the error handler.
	Failed int64
	// Discarded counts values dropped by the rest policy.
	Discarded int64
}

// router holds what Demuxer and Muxer share: the task group, the
// configuration and the delivery counters.
type router struct {
	*Group

	routed    atomic.Int64
	failed    atomic.Int64
	discarded atomic.Int64
}

func newRouter(ctx context.Context, cfg config) *router {
	return &router{Group: newGroup(ctx, cfg)}
}

// Metrics returns the current delivery counters.
func (r *router) Metrics() Metrics {
	return Metrics{
		Routed:    r.routed.Load(),
		Failed:    r.failed.Load(),
		Discarded: r.discarded.Load(),
	}
}

// fail reports an undelivered value. The handler runs synchronously so
// that failures are observed in the order they happened.
func (r *router) fail(ctx context.Context, f *SendFailure) {
	r.failed.Add(1)
	r.cfg.logger.Warn("muxstream: delivery failed",
		"tag", string(f.Tag),
		"err", f.Err,
	)
	r.cfg.handler(ctx, f)
}

func (r *router) discard(tag Tag) {
	r.discarded.Add(1)
	r.cfg.logger.Debug("muxstream: discarded value with unrouted tag", "tag", string(tag))
}

// isNil reports whether v is nil or holds a nil pointer, map, channel,
// func or slice, such as a (*Stream[T])(nil) passed as a [Source].
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// endOfInput maps the error that ended an input to the task's result.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// checkTags validates the tag set shared by both engines: tags must be
// unique and, when variants are declared, among them.
func checkTags(tags []Tag, cfg config) error {
	var declared map[Tag]struct{}
	if len(cfg.variants) > 0 {
		declared = make(map[Tag]struct{}, len(cfg.variants))
		for _, t := range cfg.variants {
			declared[t] = struct{}{}
		}
	}

	seen := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateTag, t)
		}
		seen[t] = struct{}{}
		if declared != nil {
			if _, ok := declared[t]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownTag, t)
			}
		}
	}
	return nil
}

// checkCoverage fails when declared variants have no route and no rest
// policy allows them to be dropped.
func checkCoverage(tags []Tag, cfg config) error {
	if len(cfg.variants) == 0 || cfg.rest {
		return nil
	}
	routed := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		routed[t] = struct{}{}
	}
	var missing []Tag
	for _, t := range cfg.variants {
		if _, ok := routed[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return &ExhaustivenessError{Missing: missing}
	}
	return nil
}
