package cdp

import (
	"github.com/chromedp/cdproto/browser"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// Tab strip metrics at 100% scale. The protocol exposes the frame bounds only, so
// the strip is laid out the way the host lays out unpinned tabs.
const (
	stripHeight      = 41
	stripLeftInset   = 8
	stripRightInset  = 180 // new-tab button and caption buttons
	maxTabWidth      = 256
	closeButtonWidth = 28
	// Below this width the host hides the close button of inactive tabs.
	minWidthWithClose = 2 * closeButtonWidth
)

// stripLayout approximates where tabs sit inside a browser frame.
type stripLayout struct {
	frame schemas.Rect
	tabs  int
}

func newStripLayout(b *browser.Bounds, tabs int) stripLayout {
	if b == nil {
		return stripLayout{}
	}
	return stripLayout{
		frame: schemas.Rect{
			Left:   int32(b.Left),
			Top:    int32(b.Top),
			Right:  int32(b.Left + b.Width),
			Bottom: int32(b.Top + b.Height),
		},
		tabs: tabs,
	}
}

func (l stripLayout) strip() schemas.Rect {
	bottom := l.frame.Top + stripHeight
	if bottom > l.frame.Bottom {
		bottom = l.frame.Bottom
	}
	return schemas.Rect{Left: l.frame.Left, Top: l.frame.Top, Right: l.frame.Right, Bottom: bottom}
}

func (l stripLayout) tabWidth() int32 {
	if l.tabs <= 0 {
		return 0
	}
	avail := (l.frame.Right - l.frame.Left) - stripLeftInset - stripRightInset
	if avail <= 0 {
		return 0
	}
	w := avail / int32(l.tabs)
	if w > maxTabWidth {
		w = maxTabWidth
	}
	return w
}

func (l stripLayout) inStrip(p schemas.Point) bool {
	return l.strip().Contains(p)
}

// tabAt returns the index of the tab drawn under p.
func (l stripLayout) tabAt(p schemas.Point) (int, bool) {
	w := l.tabWidth()
	if w == 0 || !l.inStrip(p) {
		return 0, false
	}
	x := p.X - l.frame.Left - stripLeftInset
	if x < 0 {
		return 0, false
	}
	i := int(x / w)
	if i >= l.tabs {
		return 0, false
	}
	return i, true
}

func (l stripLayout) onCloseButton(p schemas.Point) bool {
	i, ok := l.tabAt(p)
	w := l.tabWidth()
	if !ok || w < minWidthWithClose {
		return false
	}
	x := p.X - l.frame.Left - stripLeftInset - int32(i)*w
	return x >= w-closeButtonWidth
}
