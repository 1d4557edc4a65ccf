package gesture

import (
	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
)

func isCloseShortcut(ev schemas.KeyEventData, mods schemas.Modifiers) bool {
	switch ev.VirtualKey {
	case schemas.VKW:
		return mods.Control && !mods.Shift
	case schemas.VKF4:
		return mods.Control
	}
	return false
}

// ClassifyCloseShortcut keeps the window open when Ctrl+W or Ctrl+F4 would close
// its last tab.
func ClassifyCloseShortcut(env *Env, ev schemas.KeyEventData, mods schemas.Modifiers) Decision {
	if !ev.Pressed || !isCloseShortcut(ev, mods) {
		return notApplicable
	}

	focused := env.UI.FocusedWindow()
	if !env.UI.IsHostWindow(focused) {
		return notApplicable
	}

	// The tab container is unreachable in full screen.
	if env.UI.IsFullScreen(focused) {
		_ = env.Host.ExecuteHostCommand(schemas.CmdFullscreen, focused)
	}

	top := env.UI.RootOwner(focused)
	_ = env.Host.ExecuteHostCommand(schemas.CmdCloseFindOrStop, focused)

	c, err := env.UI.LocateTabContainer(top)
	if err != nil {
		return notApplicable
	}
	keep, err := env.shouldKeep(c)
	if err != nil || !keep {
		return notApplicable
	}
	return consume(CloseShortcutKeepTab, keepTabActions(top)...)
}

// ClassifyOmniboxEnter opens the typed address in a new tab by replaying Enter
// with Alt (and Shift for a background tab).
func ClassifyOmniboxEnter(env *Env, ev schemas.KeyEventData, mods schemas.Modifiers) Decision {
	mode := env.Tabs.OpenURLNewTab
	if !ev.Pressed || ev.VirtualKey != schemas.VKReturn || mods.Alt || !mode.Enabled() {
		return notApplicable
	}

	fg := env.UI.ForegroundWindow()
	if !env.UI.IsHostWindow(fg) {
		return notApplicable
	}
	c, err := env.UI.LocateTabContainer(fg)
	if err != nil {
		return notApplicable
	}
	if !env.UI.OmniboxHasFocus(c) || env.UI.IsNewTabAffordance(c) {
		return notApplicable
	}

	if mode == config.NewTabForeground {
		return consume(OpenURLNewTab, Synthesize(schemas.VKMenu, schemas.VKReturn))
	}
	return consume(OpenURLNewTab, Synthesize(schemas.VKShift, schemas.VKMenu, schemas.VKReturn))
}
