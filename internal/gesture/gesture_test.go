package gesture

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
	"github.com/xkilldash9x/tabkeeper/internal/keeptab"
	"github.com/xkilldash9x/tabkeeper/internal/mocks"
)

const (
	topWin    schemas.WindowHandle    = 0x100
	childWin  schemas.WindowHandle    = 0x101
	popupWin  schemas.WindowHandle    = 0x200
	container schemas.ContainerHandle = 0x300
)

var (
	at      = schemas.Point{X: 120, Y: 14}
	noMods  = schemas.Modifiers{}
	errMiss = errors.New("no tab strip in accessibility tree")
)

type fixture struct {
	ui   *mocks.MockUIQuery
	host *mocks.MockCommander
	env  *Env
	now  time.Time
}

func newFixture(t *testing.T, tabs config.TabConfig) *fixture {
	t.Helper()
	f := &fixture{
		ui:   new(mocks.MockUIQuery),
		host: new(mocks.MockCommander),
		now:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.env = &Env{
		Tabs: tabs,
		UI:   f.ui,
		Host: f.host,
		Keep: keeptab.NewTracker(tabs.KeepLastTab, func() time.Time { return f.now }),
	}
	t.Cleanup(func() {
		f.ui.AssertExpectations(t)
		f.host.AssertExpectations(t)
	})
	return f
}

func defaultTabs() config.TabConfig {
	return config.NewDefaultConfig().Tabs()
}

// expectTabUnderPoint wires a pointer lookup that lands on a tab of a container
// reporting n tabs.
func (f *fixture) expectTabUnderPoint(n int) {
	f.ui.On("WindowFromPoint", at).Return(childWin)
	f.ui.On("PointOnDialog", childWin, at).Return(false)
	f.ui.On("LocateTabContainer", childWin).Return(container, nil)
	f.ui.On("PointOnTab", container, at).Return(true)
	f.ui.On("TabCount", container).Return(n)
}

// expectFocusedHost wires keyboard focus on childWin inside the host's topWin.
func (f *fixture) expectFocusedHost() {
	f.ui.On("FocusedWindow").Return(childWin)
	f.ui.On("RootOwner", childWin).Return(topWin)
	f.ui.On("IsHostWindow", topWin).Return(true)
}

func assertDecision(t *testing.T, want, got Decision) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decision mismatch (-want +got):\n%s", diff)
	}
}

func wheel(delta int32) schemas.MouseEventData {
	return schemas.MouseEventData{Type: schemas.MouseWheel, Point: at, WheelDelta: delta}
}

func click(t schemas.MouseEventType, b schemas.MouseButton) schemas.MouseEventData {
	return schemas.MouseEventData{Type: t, Button: b, Point: at}
}

func TestClassifyWheel_OverTabStrip(t *testing.T) {
	f := newFixture(t, defaultTabs())
	f.expectFocusedHost()
	f.ui.On("LocateTabContainer", childWin).Return(container, nil)
	f.ui.On("PointInTabStrip", container, at).Return(true)

	got := ClassifyWheel(f.env, wheel(120), noMods)

	assertDecision(t, Decision{
		Outcome: Consume,
		Gesture: WheelTabSwitch,
		Actions: []Action{Command(schemas.CmdSelectPreviousTab, topWin)},
	}, got)
}

func TestClassifyWheel_RightButtonHeldArmsMenuSuppress(t *testing.T) {
	f := newFixture(t, defaultTabs())
	f.expectFocusedHost()
	f.ui.On("LocateTabContainer", childWin).Return(container, nil)
	f.ui.On("PointInTabStrip", container, at).Return(false)

	got := ClassifyWheel(f.env, wheel(-120), schemas.Modifiers{RightButton: true})

	assertDecision(t, Decision{
		Outcome:         Consume,
		Gesture:         WheelTabSwitch,
		Actions:         []Action{Command(schemas.CmdSelectNextTab, topWin), CancelCapture(topWin)},
		ArmMenuSuppress: true,
	}, got)
}

func TestClassifyWheel_RightButtonHeldWithoutMenuSuppress(t *testing.T) {
	tabs := defaultTabs()
	tabs.WheelTab = false
	tabs.WheelTabDisableMenu = false
	f := newFixture(t, tabs)
	f.expectFocusedHost()

	got := ClassifyWheel(f.env, wheel(0), schemas.Modifiers{RightButton: true})

	assertDecision(t, Decision{
		Outcome: Consume,
		Gesture: WheelTabSwitch,
		Actions: []Action{Command(schemas.CmdSelectNextTab, topWin)},
	}, got)
}

func TestClassifyWheel_NotApplicable(t *testing.T) {
	t.Run("outside strip without right button", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectFocusedHost()
		f.ui.On("LocateTabContainer", childWin).Return(container, nil)
		f.ui.On("PointInTabStrip", container, at).Return(false)

		assert.False(t, ClassifyWheel(f.env, wheel(120), noMods).Matched())
	})

	t.Run("container lookup fails", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectFocusedHost()
		f.ui.On("LocateTabContainer", childWin).Return(schemas.ContainerHandle(0), errMiss)

		assert.False(t, ClassifyWheel(f.env, wheel(120), noMods).Matched())
	})

	t.Run("focus outside the host", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.ui.On("FocusedWindow").Return(popupWin)
		f.ui.On("RootOwner", popupWin).Return(popupWin)
		f.ui.On("IsHostWindow", popupWin).Return(false)

		assert.False(t, ClassifyWheel(f.env, wheel(-120), schemas.Modifiers{RightButton: true}).Matched())
		assert.False(t, ClassifyWheel(f.env, wheel(120), noMods).Matched())
	})

	t.Run("both toggles off", func(t *testing.T) {
		tabs := defaultTabs()
		tabs.WheelTab = false
		tabs.WheelTabWhenPressRightButton = false
		f := newFixture(t, tabs)

		assert.False(t, ClassifyWheel(f.env, wheel(120), schemas.Modifiers{RightButton: true}).Matched())
	})

	t.Run("not a wheel event", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyWheel(f.env, click(schemas.MousePress, schemas.ButtonLeft), noMods).Matched())
	})
}

func TestClassifyDoubleClick(t *testing.T) {
	ev := click(schemas.MouseDoubleClick, schemas.ButtonLeft)

	t.Run("closes the tab under the pointer", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectTabUnderPoint(3)
		f.ui.On("PointOnTabCloseButton", container, at).Return(false)

		assertDecision(t, Decision{
			Outcome: PassThrough,
			Gesture: DoubleClickClose,
			Actions: []Action{Command(schemas.CmdCloseTab, childWin)},
		}, ClassifyDoubleClick(f.env, ev, noMods))
	})

	t.Run("last tab is replaced", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectTabUnderPoint(1)
		f.ui.On("PointOnTabCloseButton", container, at).Return(false)

		assertDecision(t, Decision{
			Outcome: PassThrough,
			Gesture: DoubleClickClose,
			Actions: []Action{
				Command(schemas.CmdNewTab, childWin),
				Command(schemas.CmdCloseOtherTabs, childWin),
			},
		}, ClassifyDoubleClick(f.env, ev, noMods))
	})

	t.Run("close button is left to the host", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.ui.On("WindowFromPoint", at).Return(childWin)
		f.ui.On("PointOnDialog", childWin, at).Return(false)
		f.ui.On("LocateTabContainer", childWin).Return(container, nil)
		f.ui.On("PointOnTab", container, at).Return(true)
		f.ui.On("PointOnTabCloseButton", container, at).Return(true)

		assert.False(t, ClassifyDoubleClick(f.env, ev, noMods).Matched())
	})

	t.Run("stale container", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectTabUnderPoint(0)
		f.ui.On("PointOnTabCloseButton", container, at).Return(false)

		assert.False(t, ClassifyDoubleClick(f.env, ev, noMods).Matched())
	})

	t.Run("disabled", func(t *testing.T) {
		tabs := defaultTabs()
		tabs.DoubleClickClose = false
		f := newFixture(t, tabs)

		assert.False(t, ClassifyDoubleClick(f.env, ev, noMods).Matched())
	})

	t.Run("single click is ignored", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyDoubleClick(f.env, click(schemas.MouseRelease, schemas.ButtonLeft), noMods).Matched())
	})
}

func TestResolveContainer_FindBarRetry(t *testing.T) {
	f := newFixture(t, defaultTabs())
	f.ui.On("PointOnDialog", childWin, at).Return(false)
	f.ui.On("LocateTabContainer", childWin).Return(schemas.ContainerHandle(0), errMiss).Once()
	f.host.On("ExecuteHostCommand", schemas.CmdCloseFindOrStop, childWin).Return(nil).Once()
	f.ui.On("LocateTabContainer", childWin).Return(container, nil).Once()

	c, err := f.env.resolveContainer(childWin, at)
	require.NoError(t, err)
	assert.Equal(t, container, c)
}

func TestResolveContainer_RetryFails(t *testing.T) {
	f := newFixture(t, defaultTabs())
	f.ui.On("PointOnDialog", childWin, at).Return(false)
	f.ui.On("LocateTabContainer", childWin).Return(schemas.ContainerHandle(0), errMiss).Twice()
	f.host.On("ExecuteHostCommand", schemas.CmdCloseFindOrStop, childWin).Return(nil).Once()

	_, err := f.env.resolveContainer(childWin, at)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMiss)
}

func TestResolveContainer_NoTabSourceSkipsRetry(t *testing.T) {
	f := newFixture(t, defaultTabs())
	unwired := fmt.Errorf("%w: %w", schemas.ErrLookupFailed, schemas.ErrNoTabSource)
	f.ui.On("PointOnDialog", childWin, at).Return(false)
	f.ui.On("LocateTabContainer", childWin).Return(schemas.ContainerHandle(0), unwired).Once()

	_, err := f.env.resolveContainer(childWin, at)
	assert.ErrorIs(t, err, schemas.ErrNoTabSource)
	f.host.AssertNotCalled(t, "ExecuteHostCommand", schemas.CmdCloseFindOrStop, childWin)
	f.ui.AssertNumberOfCalls(t, "LocateTabContainer", 1)
}

func TestResolveContainer_DialogDefers(t *testing.T) {
	f := newFixture(t, defaultTabs())
	f.ui.On("PointOnDialog", childWin, at).Return(true)

	_, err := f.env.resolveContainer(childWin, at)
	assert.ErrorIs(t, err, ErrDeferToHost)
	f.ui.AssertNotCalled(t, "LocateTabContainer", childWin)
}

func TestLiveTabCount_Transient(t *testing.T) {
	f := newFixture(t, defaultTabs())
	f.ui.On("TabCount", container).Return(-1)

	_, err := f.env.liveTabCount(container)
	assert.ErrorIs(t, err, schemas.ErrTransientUIMismatch)
}

func rightClickTabs() config.TabConfig {
	tabs := defaultTabs()
	tabs.RightClickClose = true
	return tabs
}

func TestClassifyRightClick(t *testing.T) {
	ev := click(schemas.MouseRelease, schemas.ButtonRight)

	t.Run("replays as middle click", func(t *testing.T) {
		f := newFixture(t, rightClickTabs())
		f.expectTabUnderPoint(4)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: RightClickClose,
			Actions: []Action{Synthesize(schemas.VKMButton)},
		}, ClassifyRightClick(f.env, ev, noMods))
	})

	t.Run("last tab is replaced", func(t *testing.T) {
		f := newFixture(t, rightClickTabs())
		f.expectTabUnderPoint(1)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: RightClickClose,
			Actions: []Action{
				Command(schemas.CmdNewTab, childWin),
				Command(schemas.CmdCloseOtherTabs, childWin),
			},
		}, ClassifyRightClick(f.env, ev, noMods))
	})

	t.Run("shift keeps the context menu", func(t *testing.T) {
		f := newFixture(t, rightClickTabs())
		assert.False(t, ClassifyRightClick(f.env, ev, schemas.Modifiers{Shift: true}).Matched())
	})

	t.Run("off tab leaves heuristic untouched", func(t *testing.T) {
		f := newFixture(t, rightClickTabs())
		f.ui.On("WindowFromPoint", at).Return(childWin)
		f.ui.On("PointOnDialog", childWin, at).Return(false)
		f.ui.On("LocateTabContainer", childWin).Return(container, nil)
		f.ui.On("PointOnTab", container, at).Return(false)

		assert.False(t, ClassifyRightClick(f.env, ev, noMods).Matched())
		assert.True(t, f.env.Keep.LastClose().IsZero())
	})

	t.Run("disabled by default", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyRightClick(f.env, ev, noMods).Matched())
	})
}

func TestClassifyMiddleClick(t *testing.T) {
	ev := click(schemas.MouseRelease, schemas.ButtonMiddle)

	t.Run("preserves the last tab", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectTabUnderPoint(1)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: MiddleClickPreserve,
			Actions: []Action{
				Command(schemas.CmdNewTab, childWin),
				Command(schemas.CmdCloseOtherTabs, childWin),
			},
		}, ClassifyMiddleClick(f.env, ev, noMods))
	})

	t.Run("host closes other tabs natively", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.expectTabUnderPoint(5)

		assert.False(t, ClassifyMiddleClick(f.env, ev, noMods).Matched())
		assert.Equal(t, f.now, f.env.Keep.LastClose())
	})

	t.Run("keep last tab disabled", func(t *testing.T) {
		tabs := defaultTabs()
		tabs.KeepLastTab = false
		f := newFixture(t, tabs)
		f.expectTabUnderPoint(1)

		assert.False(t, ClassifyMiddleClick(f.env, ev, noMods).Matched())
	})
}

func TestClassifyBookmark(t *testing.T) {
	ev := click(schemas.MouseRelease, schemas.ButtonLeft)

	expectBookmark := func(f *fixture, affordance bool) {
		f.ui.On("WindowFromPoint", at).Return(popupWin)
		f.ui.On("PointOnBookmark", popupWin, at).Return(true)
		f.ui.On("FocusedWindow").Return(childWin)
		f.ui.On("LocateTabContainer", childWin).Return(container, nil)
		f.ui.On("IsNewTabAffordance", container).Return(affordance)
	}

	t.Run("foreground", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		expectBookmark(f, false)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: BookmarkNewTab,
			Actions: []Action{Synthesize(schemas.VKShift, schemas.VKMButton)},
		}, ClassifyBookmark(f.env, ev, noMods))
	})

	t.Run("background", func(t *testing.T) {
		tabs := defaultTabs()
		tabs.BookmarkNewTab = config.NewTabBackground
		f := newFixture(t, tabs)
		expectBookmark(f, false)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: BookmarkNewTab,
			Actions: []Action{Synthesize(schemas.VKMButton)},
		}, ClassifyBookmark(f.env, ev, noMods))
	})

	t.Run("new tab page opens in place", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		expectBookmark(f, true)

		assert.False(t, ClassifyBookmark(f.env, ev, noMods).Matched())
	})

	t.Run("no container counts as not the new tab page", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.ui.On("WindowFromPoint", at).Return(popupWin)
		f.ui.On("PointOnBookmark", popupWin, at).Return(true)
		f.ui.On("FocusedWindow").Return(popupWin)
		f.ui.On("LocateTabContainer", popupWin).Return(schemas.ContainerHandle(0), errMiss)

		assert.True(t, ClassifyBookmark(f.env, ev, noMods).Matched())
	})

	t.Run("not on a bookmark", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.ui.On("WindowFromPoint", at).Return(childWin)
		f.ui.On("PointOnBookmark", childWin, at).Return(false)

		assert.False(t, ClassifyBookmark(f.env, ev, noMods).Matched())
	})

	t.Run("modifier keeps host behaviour", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyBookmark(f.env, ev, schemas.Modifiers{Control: true}).Matched())
		assert.False(t, ClassifyBookmark(f.env, ev, schemas.Modifiers{Shift: true}).Matched())
	})

	t.Run("disabled", func(t *testing.T) {
		tabs := defaultTabs()
		tabs.BookmarkNewTab = config.NewTabDisabled
		f := newFixture(t, tabs)
		assert.False(t, ClassifyBookmark(f.env, ev, noMods).Matched())
	})
}

func ctrl() schemas.Modifiers { return schemas.Modifiers{Control: true} }

func keyDown(vk schemas.VirtualKey) schemas.KeyEventData {
	return schemas.KeyEventData{VirtualKey: vk, Pressed: true}
}

func TestClassifyCloseShortcut(t *testing.T) {
	expectClosePath := func(f *fixture, fullScreen bool, tabs int) {
		f.ui.On("FocusedWindow").Return(childWin)
		f.ui.On("IsHostWindow", childWin).Return(true)
		f.ui.On("IsFullScreen", childWin).Return(fullScreen)
		f.ui.On("RootOwner", childWin).Return(topWin)
		f.host.On("ExecuteHostCommand", schemas.CmdCloseFindOrStop, childWin).Return(nil)
		f.ui.On("LocateTabContainer", topWin).Return(container, nil)
		f.ui.On("TabCount", container).Return(tabs)
	}
	keep := Decision{
		Outcome: Consume,
		Gesture: CloseShortcutKeepTab,
		Actions: []Action{
			Command(schemas.CmdNewTab, topWin),
			Command(schemas.CmdCloseOtherTabs, topWin),
		},
	}

	t.Run("ctrl+w on last tab", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		expectClosePath(f, false, 1)

		assertDecision(t, keep, ClassifyCloseShortcut(f.env, keyDown(schemas.VKW), ctrl()))
	})

	t.Run("ctrl+f4 exits full screen first", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		expectClosePath(f, true, 1)
		f.host.On("ExecuteHostCommand", schemas.CmdFullscreen, childWin).Return(nil)

		assertDecision(t, keep, ClassifyCloseShortcut(f.env, keyDown(schemas.VKF4), schemas.Modifiers{Control: true, Shift: true}))
	})

	t.Run("several tabs close normally", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		expectClosePath(f, false, 3)

		assert.False(t, ClassifyCloseShortcut(f.env, keyDown(schemas.VKW), ctrl()).Matched())
	})

	t.Run("other application", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		f.ui.On("FocusedWindow").Return(popupWin)
		f.ui.On("IsHostWindow", popupWin).Return(false)

		assert.False(t, ClassifyCloseShortcut(f.env, keyDown(schemas.VKW), ctrl()).Matched())
	})

	t.Run("ctrl+shift+w closes the window", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyCloseShortcut(f.env, keyDown(schemas.VKW), schemas.Modifiers{Control: true, Shift: true}).Matched())
	})

	t.Run("release and bare key", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyCloseShortcut(f.env, schemas.KeyEventData{VirtualKey: schemas.VKW}, ctrl()).Matched())
		assert.False(t, ClassifyCloseShortcut(f.env, keyDown(schemas.VKW), noMods).Matched())
	})
}

func TestClassifyOmniboxEnter(t *testing.T) {
	expectOmnibox := func(f *fixture, focus bool) {
		f.ui.On("ForegroundWindow").Return(topWin)
		f.ui.On("IsHostWindow", topWin).Return(true)
		f.ui.On("LocateTabContainer", topWin).Return(container, nil)
		f.ui.On("OmniboxHasFocus", container).Return(focus)
		if focus {
			f.ui.On("IsNewTabAffordance", container).Return(false)
		}
	}
	foreground := func() config.TabConfig {
		tabs := defaultTabs()
		tabs.OpenURLNewTab = config.NewTabForeground
		return tabs
	}

	t.Run("foreground", func(t *testing.T) {
		f := newFixture(t, foreground())
		expectOmnibox(f, true)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: OpenURLNewTab,
			Actions: []Action{Synthesize(schemas.VKMenu, schemas.VKReturn)},
		}, ClassifyOmniboxEnter(f.env, keyDown(schemas.VKReturn), noMods))
	})

	t.Run("background", func(t *testing.T) {
		tabs := defaultTabs()
		tabs.OpenURLNewTab = config.NewTabBackground
		f := newFixture(t, tabs)
		expectOmnibox(f, true)

		assertDecision(t, Decision{
			Outcome: Consume,
			Gesture: OpenURLNewTab,
			Actions: []Action{Synthesize(schemas.VKShift, schemas.VKMenu, schemas.VKReturn)},
		}, ClassifyOmniboxEnter(f.env, keyDown(schemas.VKReturn), noMods))
	})

	t.Run("omnibox not focused", func(t *testing.T) {
		f := newFixture(t, foreground())
		expectOmnibox(f, false)

		assert.False(t, ClassifyOmniboxEnter(f.env, keyDown(schemas.VKReturn), noMods).Matched())
	})

	t.Run("foreground window outside the host", func(t *testing.T) {
		f := newFixture(t, foreground())
		f.ui.On("ForegroundWindow").Return(popupWin)
		f.ui.On("IsHostWindow", popupWin).Return(false)

		assert.False(t, ClassifyOmniboxEnter(f.env, keyDown(schemas.VKReturn), noMods).Matched())
		f.ui.AssertNotCalled(t, "LocateTabContainer", popupWin)
	})

	t.Run("alt already held", func(t *testing.T) {
		f := newFixture(t, foreground())
		assert.False(t, ClassifyOmniboxEnter(f.env, keyDown(schemas.VKReturn), schemas.Modifiers{Alt: true}).Matched())
	})

	t.Run("disabled by default", func(t *testing.T) {
		f := newFixture(t, defaultTabs())
		assert.False(t, ClassifyOmniboxEnter(f.env, keyDown(schemas.VKReturn), noMods).Matched())
	})
}

func TestAction_Apply(t *testing.T) {
	host := new(mocks.MockCommander)
	host.On("ExecuteHostCommand", schemas.CmdNewTab, topWin).Return(nil)
	host.On("SynthesizeInput", schemas.Chord{schemas.VKShift, schemas.VKMButton}, schemas.SyntheticOrigin).Return(nil)
	host.On("CancelInputCapture", topWin).Return(errMiss)

	assert.NoError(t, Command(schemas.CmdNewTab, topWin).Apply(host, schemas.SyntheticOrigin))
	assert.NoError(t, Synthesize(schemas.VKShift, schemas.VKMButton).Apply(host, schemas.SyntheticOrigin))
	assert.ErrorIs(t, CancelCapture(topWin).Apply(host, schemas.SyntheticOrigin), errMiss)
	assert.Error(t, Action{Kind: ActionKind(9)}.Apply(host, schemas.SyntheticOrigin))
	host.AssertExpectations(t)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "consume", Consume.String())
	assert.Equal(t, "pass_through", PassThrough.String())
	assert.Equal(t, "outcome(7)", Outcome(7).String())
	assert.Equal(t, "cancel_capture@0x100", CancelCapture(topWin).String())
	assert.Contains(t, Command(schemas.CmdNewTab, topWin).String(), "@0x100")
}
