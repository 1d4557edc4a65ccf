package gesture

import (
	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
)

// ClassifyWheel switches tabs with the wheel, either while the cursor is over the
// tab strip or while the right button is held. Positive delta selects the previous
// tab, anything else the next one.
func ClassifyWheel(env *Env, ev schemas.MouseEventData, mods schemas.Modifiers) Decision {
	if ev.Type != schemas.MouseWheel || (!env.Tabs.WheelTab && !env.Tabs.WheelTabWhenPressRightButton) {
		return notApplicable
	}

	focused := env.UI.FocusedWindow()
	top := env.UI.RootOwner(focused)
	if !env.UI.IsHostWindow(top) {
		return notApplicable
	}
	cmd := schemas.CmdSelectNextTab
	if ev.WheelDelta > 0 {
		cmd = schemas.CmdSelectPreviousTab
	}

	if env.Tabs.WheelTab {
		if c, err := env.UI.LocateTabContainer(focused); err == nil && env.UI.PointInTabStrip(c, ev.Point) {
			return consume(WheelTabSwitch, Command(cmd, top))
		}
	}

	if env.Tabs.WheelTabWhenPressRightButton && mods.RightButton {
		d := consume(WheelTabSwitch, Command(cmd, top))
		if env.Tabs.WheelTabDisableMenu {
			// The release that ends this hold would otherwise open a context menu.
			d.ArmMenuSuppress = true
			d.Actions = append(d.Actions, CancelCapture(top))
		}
		return d
	}

	return notApplicable
}

// ClassifyDoubleClick closes the tab under a left double-click, or replaces the
// last tab with a fresh one. The event itself must still reach the host.
func ClassifyDoubleClick(env *Env, ev schemas.MouseEventData, _ schemas.Modifiers) Decision {
	if !ev.Is(schemas.MouseDoubleClick, schemas.ButtonLeft) || !env.Tabs.DoubleClickClose {
		return notApplicable
	}

	w := env.UI.WindowFromPoint(ev.Point)
	c, err := env.resolveContainer(w, ev.Point)
	if err != nil {
		return notApplicable
	}
	if !env.UI.PointOnTab(c, ev.Point) || env.UI.PointOnTabCloseButton(c, ev.Point) {
		return notApplicable
	}

	n, err := env.liveTabCount(c)
	if err != nil {
		return notApplicable
	}
	if n == 1 {
		return passThrough(DoubleClickClose, keepTabActions(w)...)
	}
	return passThrough(DoubleClickClose, Command(schemas.CmdCloseTab, w))
}

// ClassifyRightClick closes the tab under a right-button release. Holding Shift
// keeps the host's context menu.
func ClassifyRightClick(env *Env, ev schemas.MouseEventData, mods schemas.Modifiers) Decision {
	if !ev.Is(schemas.MouseRelease, schemas.ButtonRight) || mods.Shift || !env.Tabs.RightClickClose {
		return notApplicable
	}

	w := env.UI.WindowFromPoint(ev.Point)
	c, err := env.resolveContainer(w, ev.Point)
	if err != nil || !env.UI.PointOnTab(c, ev.Point) {
		return notApplicable
	}

	keep, err := env.shouldKeep(c)
	if err != nil {
		return notApplicable
	}
	if keep {
		return consume(RightClickClose, keepTabActions(w)...)
	}
	// A middle click on a tab is the host's own close gesture.
	return consume(RightClickClose, Synthesize(schemas.VKMButton))
}

// ClassifyMiddleClick intercepts the host's native middle-click close only when it
// would take the last tab with it.
func ClassifyMiddleClick(env *Env, ev schemas.MouseEventData, _ schemas.Modifiers) Decision {
	if !ev.Is(schemas.MouseRelease, schemas.ButtonMiddle) {
		return notApplicable
	}

	w := env.UI.WindowFromPoint(ev.Point)
	c, err := env.resolveContainer(w, ev.Point)
	if err != nil || !env.UI.PointOnTab(c, ev.Point) {
		return notApplicable
	}

	keep, err := env.shouldKeep(c)
	if err != nil || !keep {
		return notApplicable
	}
	return consume(MiddleClickPreserve, keepTabActions(w)...)
}

// ClassifyBookmark opens a left-clicked bookmark in a new tab by replaying the
// click as a middle click.
func ClassifyBookmark(env *Env, ev schemas.MouseEventData, mods schemas.Modifiers) Decision {
	mode := env.Tabs.BookmarkNewTab
	if !ev.Is(schemas.MouseRelease, schemas.ButtonLeft) || mods.Control || mods.Shift || !mode.Enabled() {
		return notApplicable
	}

	w := env.UI.WindowFromPoint(ev.Point)
	if !env.UI.PointOnBookmark(w, ev.Point) {
		return notApplicable
	}

	// Bookmark folders open as separate popup windows, so the window under the
	// point has no tab container; the focused window does.
	if c, err := env.UI.LocateTabContainer(env.UI.FocusedWindow()); err == nil && env.UI.IsNewTabAffordance(c) {
		return notApplicable
	}

	if mode == config.NewTabForeground {
		return consume(BookmarkNewTab, Synthesize(schemas.VKShift, schemas.VKMButton))
	}
	return consume(BookmarkNewTab, Synthesize(schemas.VKMButton))
}
