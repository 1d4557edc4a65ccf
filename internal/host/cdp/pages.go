package cdp

import (
	"strings"

	"github.com/chromedp/cdproto/target"
)

// NewTabURL is what a fresh tab shows.
const NewTabURL = "chrome://newtab/"

// isTab reports whether a target is a tab the user can see in the strip.
func isTab(info *target.Info) bool {
	if info == nil || info.Type != "page" || info.Subtype == "prerender" {
		return false
	}
	return !strings.HasPrefix(info.URL, "devtools://")
}

// isNewTabPage matches both the new-tab alias and the page it resolves to.
func isNewTabPage(url string) bool {
	return strings.HasPrefix(url, NewTabURL) || strings.HasPrefix(url, "chrome://new-tab-page")
}

// orderTabs merges a fresh target listing into the known tab order. Known tabs keep
// their position, tabs that disappeared are dropped and new ones are appended in
// listing order.
func orderTabs(known []target.ID, listed []*target.Info) []target.ID {
	present := make(map[target.ID]bool, len(listed))
	for _, info := range listed {
		if isTab(info) {
			present[info.TargetID] = true
		}
	}

	out := make([]target.ID, 0, len(present))
	seen := make(map[target.ID]bool, len(present))
	for _, id := range known {
		if present[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, info := range listed {
		if id := info.TargetID; present[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// cycle returns the tab step positions away from the one at from, wrapping around.
func cycle(ids []target.ID, from target.ID, step int) (target.ID, bool) {
	i := indexOf(ids, from)
	if i < 0 || len(ids) < 2 {
		return "", false
	}
	n := len(ids)
	return ids[((i+step)%n+n)%n], true
}

// successor is the tab that becomes active when the one at closing goes away: its
// right neighbour, or its left one at the end of the strip.
func successor(ids []target.ID, closing target.ID) target.ID {
	i := indexOf(ids, closing)
	switch {
	case i < 0:
		return ""
	case i+1 < len(ids):
		return ids[i+1]
	case i > 0:
		return ids[i-1]
	}
	return ""
}

func indexOf(ids []target.ID, id target.ID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

func without(ids []target.ID, id target.ID) []target.ID {
	out := make([]target.ID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
