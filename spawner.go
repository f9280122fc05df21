package muxstream

import (
	"context"
	"time"
)

// spawn starts one routing task in the group. The task always runs, even
// on an already-cancelled context, so that it can close the channels it
// owns; fn is expected to observe ctx at its first pull.
func (g *Group) spawn(info TaskInfo, fn func(ctx context.Context) error) {
	g.wg.Add(1)
	g.totalSpawned.Add(1)
	g.activeTasks.Add(1)

	go func() {
		defer g.wg.Done()
		defer g.activeTasks.Add(-1)

		g.cfg.logger.Debug("routing task started", "task", info.Name)

		start := time.Now()
		// Hooks run inside exec so a panicking hook is recovered too.
		panicked, err := g.exec(info, func(ctx context.Context) error {
			if g.cfg.onStart != nil {
				g.cfg.onStart(info)
			}
			return fn(ctx)
		})
		elapsed := time.Since(start)

		if g.cfg.onDone != nil {
			g.cfg.onDone(info, err, elapsed)
		}

		g.cfg.logger.Debug("routing task finished",
			"task", info.Name,
			"elapsed", elapsed,
			"err", err,
		)

		// A panic re-raised by Wait is not reported twice.
		if err != nil && (!panicked || g.cfg.panicAsErr) {
			g.recordError(info, err)
		}
	}()
}
