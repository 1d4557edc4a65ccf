package gesture

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
	"github.com/xkilldash9x/tabkeeper/internal/keeptab"
)

// Env bundles what every classifier reads. It is owned by the dispatcher and
// lives as long as the hook is installed.
type Env struct {
	Tabs config.TabConfig
	UI   schemas.UIQuery
	Host schemas.Commander
	Keep *keeptab.Tracker
}

// resolveContainer finds the tab container of w for a pointer gesture at p.
// When the first lookup fails the find bar is closed and the lookup retried once,
// unless no tab source is wired. A point on a dialog always defers to the host.
func (env *Env) resolveContainer(w schemas.WindowHandle, p schemas.Point) (schemas.ContainerHandle, error) {
	if env.UI.PointOnDialog(w, p) {
		return 0, ErrDeferToHost
	}
	c, err := env.UI.LocateTabContainer(w)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, schemas.ErrNoTabSource) {
		return 0, err
	}

	// An open find bar hides the container from the accessibility walk.
	_ = env.Host.ExecuteHostCommand(schemas.CmdCloseFindOrStop, w)
	c, err = env.UI.LocateTabContainer(w)
	if err != nil {
		return 0, fmt.Errorf("tab container after closing find bar: %w", err)
	}
	return c, nil
}

// liveTabCount reads the tab count of c, treating a non-positive count as a
// container that went stale between lookup and use.
func (env *Env) liveTabCount(c schemas.ContainerHandle) (int, error) {
	n := env.UI.TabCount(c)
	if n <= 0 {
		return 0, fmt.Errorf("container %#x reports %d tabs: %w", uintptr(c), n, schemas.ErrTransientUIMismatch)
	}
	return n, nil
}

// shouldKeep consults the keep-last-tab heuristic for container c.
func (env *Env) shouldKeep(c schemas.ContainerHandle) (bool, error) {
	n, err := env.liveTabCount(c)
	if err != nil {
		return false, err
	}
	return env.Keep.ShouldKeep(n), nil
}
