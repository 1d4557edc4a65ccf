package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
)

// Script is a replayable input session against a simulated browser.
type Script struct {
	Name     string           `yaml:"name"`
	Browser  Setup            `yaml:"browser"`
	Settings config.TabConfig `yaml:"settings"`
	Steps    []Step           `yaml:"steps"`
}

// Step is one scripted moment. Exactly one of Mouse, Key, Do or Expect is set.
type Step struct {
	// After advances the clock before the step runs.
	After  time.Duration `yaml:"after"`
	Mouse  *MouseStep    `yaml:"mouse,omitempty"`
	Key    *KeyStep      `yaml:"key,omitempty"`
	Do     string        `yaml:"do,omitempty"`
	Text   string        `yaml:"text,omitempty"`
	Expect *Expect       `yaml:"expect,omitempty"`
}

// MouseStep is a mouse event at a named target.
type MouseStep struct {
	Type       schemas.MouseEventType `yaml:"type"`
	Button     schemas.MouseButton    `yaml:"button"`
	At         Target                 `yaml:"at"`
	WheelDelta int32                  `yaml:"wheel_delta"`
}

// Target names a spot on the simulated screen.
type Target struct {
	Tab      *int           `yaml:"tab,omitempty"`
	TabClose *int           `yaml:"tab_close,omitempty"`
	Bookmark *int           `yaml:"bookmark,omitempty"`
	Strip    bool           `yaml:"strip,omitempty"`
	Omnibox  bool           `yaml:"omnibox,omitempty"`
	FindBar  bool           `yaml:"find_bar,omitempty"`
	Point    *schemas.Point `yaml:"point,omitempty"`
}

// KeyStep is a key transition. Action is down, up or tap (down then up).
type KeyStep struct {
	Key    string `yaml:"key"`
	Action string `yaml:"action"`
}

// Expect asserts on the browser state and on the last real input event.
type Expect struct {
	Tabs         *int    `yaml:"tabs,omitempty"`
	LiveTabs     *int    `yaml:"live_tabs,omitempty"`
	ActiveURL    *string `yaml:"active_url,omitempty"`
	WindowOpen   *bool   `yaml:"window_open,omitempty"`
	ContextMenus *int    `yaml:"context_menus,omitempty"`
	Consumed     *bool   `yaml:"consumed,omitempty"`
	Gesture      *string `yaml:"gesture,omitempty"`
}

// Script actions for Step.Do.
const (
	DoOpenFindBar     = "open_find_bar"
	DoEnterFullScreen = "enter_full_screen"
	DoFocusOmnibox    = "focus_omnibox"
)

var keyNames = map[string]schemas.VirtualKey{
	"ctrl":    schemas.VKControl,
	"control": schemas.VKControl,
	"shift":   schemas.VKShift,
	"alt":     schemas.VKMenu,
	"enter":   schemas.VKReturn,
	"return":  schemas.VKReturn,
	"f4":      schemas.VKF4,
}

// ParseKey resolves a key name: a modifier name, enter, f4, or a single letter or digit.
func ParseKey(name string) (schemas.VirtualKey, error) {
	if vk, ok := keyNames[strings.ToLower(name)]; ok {
		return vk, nil
	}
	if len(name) == 1 {
		c := strings.ToUpper(name)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return schemas.VirtualKey(c), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// Resolve turns the target into a screen point.
func (t Target) Resolve() (schemas.Point, error) {
	switch {
	case t.Point != nil:
		return *t.Point, nil
	case t.Tab != nil:
		return TabPoint(*t.Tab), nil
	case t.TabClose != nil:
		return TabClosePoint(*t.TabClose), nil
	case t.Bookmark != nil:
		return BookmarkPoint(*t.Bookmark), nil
	case t.Strip:
		return StripPoint(), nil
	case t.Omnibox:
		return OmniboxPoint(), nil
	case t.FindBar:
		return FindBarPoint(), nil
	}
	return ContentPoint(), nil
}

// LoadScript decodes a YAML script. Settings missing from the script take the
// values of defaults.
func LoadScript(r io.Reader, defaults config.TabConfig) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s := &Script{Settings: defaults}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every step is well formed.
func (s *Script) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("script %q: %w", s.Name, err)
	}
	for i, st := range s.Steps {
		set := 0
		if st.Mouse != nil {
			set++
		}
		if st.Key != nil {
			set++
			if _, err := ParseKey(st.Key.Key); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			switch st.Key.Action {
			case "down", "up", "tap":
			default:
				return fmt.Errorf("step %d: key action must be down, up or tap (got %q)", i, st.Key.Action)
			}
		}
		if st.Do != "" {
			set++
			switch st.Do {
			case DoOpenFindBar, DoEnterFullScreen, DoFocusOmnibox:
			default:
				return fmt.Errorf("step %d: unknown action %q", i, st.Do)
			}
		}
		if st.Expect != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("step %d: exactly one of mouse, key, do or expect must be set", i)
		}
	}
	return nil
}
