package muxstream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Group tracks the routing tasks of one [Demuxer] or [Muxer].
//
// All tasks share a context derived from the one passed to [Demux] or
// [Mux]. A task whose input fails records a [*TaskError] without
// disturbing its siblings; a task that panics cancels the whole group.
// Group is embedded by Demuxer and Muxer, so its methods are called on
// them directly.
//
// Calling [Group.Wait] is optional for correctness of the outputs but is
// the only way to observe input errors and panics.
type Group struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	cfg    config

	wg   sync.WaitGroup
	done chan struct{}

	errMu sync.Mutex
	errs  []*TaskError

	panicMu sync.Mutex
	panics  []*PanicError

	finOnce  sync.Once
	finErr   error
	finPanic *PanicError

	totalSpawned atomic.Int64
	activeTasks  atomic.Int64
}

func newGroup(parent context.Context, cfg config) *Group {
	ctx, cancel := context.WithCancelCause(parent)
	return &Group{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		done:   make(chan struct{}),
	}
}

// seal is called once every task has been spawned; Done is closed when
// they have all returned.
func (g *Group) seal() {
	go func() {
		g.wg.Wait()
		close(g.done)
	}()
}

// Wait blocks until every routing task has finished and returns the
// input errors joined via [errors.Join], each wrapped in a [*TaskError].
// A task that ends because the group was cancelled reports the context
// error.
//
// If a task panicked and [WithPanicAsError] was not set, Wait re-panics
// with the captured [*PanicError]. Wait is idempotent.
func (g *Group) Wait() error {
	<-g.done
	err, pe := g.finalize()
	if pe != nil {
		panic(pe)
	}
	return err
}

func (g *Group) finalize() (error, *PanicError) {
	g.finOnce.Do(func() {
		g.cancel(nil)

		if !g.cfg.panicAsErr {
			g.panicMu.Lock()
			if len(g.panics) > 0 {
				g.finPanic = g.panics[0]
			}
			g.panicMu.Unlock()
		}

		g.errMu.Lock()
		if len(g.errs) > 0 {
			errs := make([]error, 0, len(g.errs))
			for _, te := range g.errs {
				errs = append(errs, te)
			}
			g.finErr = errors.Join(errs...)
		}
		g.errMu.Unlock()
	})
	return g.finErr, g.finPanic
}

// exec runs fn with panic recovery. A panic always cancels the group and
// is returned as a [*PanicError] with panicked set.
func (g *Group) exec(info TaskInfo, fn func(ctx context.Context) error) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(info, r)
			g.cfg.logger.Error("routing task panicked",
				"task", info.Name,
				"panic", r,
			)
			g.cancel(pe)
			if !g.cfg.panicAsErr {
				g.panicMu.Lock()
				g.panics = append(g.panics, pe)
				g.panicMu.Unlock()
			}
			panicked, err = true, pe
		}
	}()
	return false, fn(g.ctx)
}

func (g *Group) recordError(info TaskInfo, err error) {
	g.errMu.Lock()
	g.errs = append(g.errs, &TaskError{Task: info, Err: err})
	g.errMu.Unlock()
}

// Cancel cancels the group's context with the given cause. Routing tasks
// stop at their next pull from the input and close their channels, so
// consumers observe end-of-stream.
func (g *Group) Cancel(err error) {
	g.cancel(err)
}

// Context returns the group's context. It is cancelled by [Group.Cancel],
// by a panicking task, by the parent context, or after [Group.Wait].
func (g *Group) Context() context.Context {
	return g.ctx
}

// Done returns a channel closed once every routing task has returned.
func (g *Group) Done() <-chan struct{} {
	return g.done
}

// ActiveTasks returns the number of routing tasks still running.
func (g *Group) ActiveTasks() int64 {
	return g.activeTasks.Load()
}

// TotalSpawned returns the number of routing tasks started by the group.
func (g *Group) TotalSpawned() int64 {
	return g.totalSpawned.Load()
}
