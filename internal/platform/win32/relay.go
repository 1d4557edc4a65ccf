package win32

import (
	"time"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/hook"
)

// relay turns decoded hook payloads into chain deliveries. It runs on the hook
// thread only.
type relay struct {
	chain  *hook.Chain
	clicks *doubleClickTracker
	now    func() time.Time
}

// mouse reports whether the event must be swallowed.
func (r *relay) mouse(message uint32, pt schemas.Point, mouseData uint32, extra uintptr) bool {
	ev, ok := decodeMouse(message, pt, mouseData, extra)
	if !ok {
		return false
	}
	if r.clicks != nil && ev.Is(schemas.MousePress, schemas.ButtonLeft) && r.clicks.press(ev.Point, r.now()) {
		dbl := ev
		dbl.Type = schemas.MouseDoubleClick
		// The double click is offered for its side effects only; the press that
		// produced it is what the host sees.
		r.chain.Deliver(dbl)
	}
	return r.chain.Deliver(ev)
}

func (r *relay) key(message uint32, vk uint32, extra uintptr) bool {
	ev, ok := decodeKey(message, vk, extra)
	if !ok {
		return false
	}
	return r.chain.Deliver(ev)
}
