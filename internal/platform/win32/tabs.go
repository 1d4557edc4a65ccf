package win32

import (
	"fmt"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// NoTabState is the TabQuery used when no tab state source is configured. Every
// container lookup fails with schemas.ErrNoTabSource, so tab gestures fall back to
// the host's own handling without trying to recover.
type NoTabState struct{}

func (NoTabState) LocateTabContainer(w schemas.WindowHandle) (schemas.ContainerHandle, error) {
	return 0, fmt.Errorf("window %#x: %w: %w", uintptr(w), schemas.ErrLookupFailed, schemas.ErrNoTabSource)
}

func (NoTabState) TabCount(schemas.ContainerHandle) int                              { return 0 }
func (NoTabState) PointInTabStrip(schemas.ContainerHandle, schemas.Point) bool       { return false }
func (NoTabState) PointOnTab(schemas.ContainerHandle, schemas.Point) bool            { return false }
func (NoTabState) PointOnTabCloseButton(schemas.ContainerHandle, schemas.Point) bool { return false }
func (NoTabState) IsNewTabAffordance(schemas.ContainerHandle) bool                   { return false }
func (NoTabState) OmniboxHasFocus(schemas.ContainerHandle) bool                      { return false }
