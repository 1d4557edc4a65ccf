package win32

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// superviseLoop runs loop and asks it to stop through quit once ctx ends.
//
// loop sends its thread id on started once it can receive quit, then blocks until
// quit arrives or it fails. A loop that sees ctx ended before it gets that far
// returns without sending. quit is only called with an id loop sent, and never
// after loop has returned, so cancellation racing the start-up still stops the
// thread.
func superviseLoop(ctx context.Context, loop func(ctx context.Context, started chan<- uint32) error, quit func(tid uint32) error) error {
	g, gctx := errgroup.WithContext(ctx)
	started := make(chan uint32, 1)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return loop(gctx, started)
	})
	g.Go(func() error {
		var tid uint32
		select {
		case tid = <-started:
		case <-done:
			return nil
		}

		select {
		case <-gctx.Done():
		case <-done:
			return nil
		}
		// A failing loop closes done before the group cancels gctx.
		select {
		case <-done:
			return nil
		default:
		}
		return quit(tid)
	})
	return g.Wait()
}
