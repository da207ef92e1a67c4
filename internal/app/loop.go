package app

import (
	"context"
	"time"

	"github.com/dshills/inept/internal/event"
)

// Run drives the frame loop until the window closes, ctx is cancelled or
// the configured frame limit is reached. Each frame:
//
//  1. publishes AppUpdate(dt)
//  2. presents the window
//  3. flushes the bus and hands the flushed events to the layer stack
//  4. updates, then renders, every layer
//  5. publishes AppRender for the next flush
//
// Run returns nil on any of the normal stop conditions.
func (app *Application) Run(ctx context.Context) error {
	if app.bus == nil || app.bus.IsClosed() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	budget := app.cfg.Loop.FrameBudget()
	maxFrames := uint64(max(app.cfg.Loop.MaxFrames, 0))

	app.logger.Info().
		Int("target_fps", app.cfg.Loop.TargetFPS).
		Uint64("max_frames", maxFrames).
		Msg("entering main loop")

	last := app.now()
	for {
		if err := ctx.Err(); err != nil {
			app.logger.Info().Err(err).Msg("main loop cancelled")
			return nil
		}

		start := app.now()
		dt := app.clampDelta(start.Sub(last).Seconds())
		last = start

		events := app.frame(dt)

		elapsed := app.now().Sub(start)
		app.frames.RecordFrame(elapsed, events)
		app.collector.ObserveFrame(elapsed)
		n := app.frameCount.Add(1)

		if app.closing.Load() {
			app.logger.Info().Uint64("frames", n).Msg("window closed, leaving main loop")
			return nil
		}
		if maxFrames > 0 && n >= maxFrames {
			app.logger.Info().Uint64("frames", n).Msg("frame limit reached")
			return nil
		}

		if budget > 0 && elapsed < budget {
			select {
			case <-ctx.Done():
			case <-time.After(budget - elapsed):
			}
		}
	}
}

// frame runs one iteration and returns the number of events flushed.
func (app *Application) frame(dt float64) int {
	app.bus.Publish(event.NewAppUpdate(dt))
	app.window.Update()

	app.bus.ProcessEvents()
	events := app.drainInbox()

	app.stack.OnUpdate(dt)
	app.stack.OnRender()

	app.bus.Publish(event.NewAppRender())
	return events
}

func (app *Application) clampDelta(dt float64) float64 {
	if dt < 0 {
		return 0
	}
	if limit := app.cfg.Loop.MaxDelta; limit > 0 && dt > limit {
		return limit
	}
	return dt
}
