package hook

import (
	"context"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// Backend delivers a platform's input stream into a chain until ctx ends.
type Backend interface {
	Run(ctx context.Context, chain *Chain) error
}

// Pump delivers events serially until the channel closes or ctx is done. It returns
// nil on channel close and ctx.Err() on cancellation.
func Pump(ctx context.Context, chain *Chain, events <-chan schemas.InputEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			chain.Deliver(ev)
		}
	}
}

// ChannelBackend is a Backend over an in-process event channel.
type ChannelBackend struct {
	Events <-chan schemas.InputEvent
}

func (b ChannelBackend) Run(ctx context.Context, chain *Chain) error {
	return Pump(ctx, chain, b.Events)
}
