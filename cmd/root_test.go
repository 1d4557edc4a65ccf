package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
	"github.com/xkilldash9x/tabkeeper/internal/hook"
	"github.com/xkilldash9x/tabkeeper/internal/mocks"
	"github.com/xkilldash9x/tabkeeper/internal/platform/win32"
)

const scriptDir = "../internal/host/sim/testdata"

// writeFile drops content into a temp file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// quietConfig keeps tests away from the user's home configuration.
func quietConfig(t *testing.T) string {
	return writeFile(t, "tabkeeper.yaml", "logger:\n  level: error\n")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "tabkeeper version "+Version+"\n", out)
}

func TestRoot_NoArgsPrintsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	for _, sub := range []string{"run", "replay", "config"} {
		assert.Contains(t, out, sub)
	}
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := writeFile(t, "bad.yaml", "host:\n  backend: cdp\n")
	_, err := execute(t, "--config", path, "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.devtools_url is required")
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestConfigCommand_EmitsEffectiveConfig(t *testing.T) {
	path := writeFile(t, "tabkeeper.yaml", "logger:\n  level: error\ntabs:\n  right_click_close: true\n  bookmark_new_tab: background\n")
	out, err := execute(t, "--config", path, "config")
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.True(t, got.TabsCfg.RightClickClose)
	assert.Equal(t, config.NewTabBackground, got.TabsCfg.BookmarkNewTab)
	assert.True(t, got.TabsCfg.KeepLastTab, "unset keys keep their defaults")
	assert.Equal(t, "Chrome_WidgetWin_", got.HookCfg.HostWindowClassPrefix)
	assert.Equal(t, config.BackendWin32, got.HostCfg.Backend)
}

func TestReplayCommand_StreamsRecordsAndSummary(t *testing.T) {
	script := filepath.Join(scriptDir, "close_shortcut.yaml")
	out, err := execute(t, "--config", quietConfig(t), "replay", script)
	require.NoError(t, err)

	var lines []map[string]any
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
		lines = append(lines, line)
	}
	require.NotEmpty(t, lines)

	session := lines[0]["session"]
	require.NotEmpty(t, session)
	for _, line := range lines {
		assert.Equal(t, session, line["session"], "every line shares one session id")
	}

	last := lines[len(lines)-1]
	assert.Equal(t, "summary", last["kind"])
	assert.EqualValues(t, 0, last["failures"])
	assert.EqualValues(t, 2, last["consumed"])

	first := lines[0]
	assert.Equal(t, "event", first["kind"])
	assert.Contains(t, first["script"], "ctrl+w")
}

func TestReplayCommand_AllScriptsSummaryOnly(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join(scriptDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	args := append([]string{"--config", quietConfig(t), "replay", "--summary"}, scripts...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(scripts))
	for _, l := range lines {
		assert.Contains(t, l, `"kind":"summary"`)
	}
}

func TestReplayCommand_FailedExpectation(t *testing.T) {
	script := writeFile(t, "wrong.yaml", `browser:
  tabs: ["https://a.example/"]
steps:
  - expect: {live_tabs: 3}
`)
	out, err := execute(t, "--config", quietConfig(t), "replay", script)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReplayFailed))
	assert.Contains(t, out, "live_tabs: want 3, got 1")
	assert.Contains(t, out, script, "scripts without a name are reported by path")
}

func TestReplayCommand_BadScript(t *testing.T) {
	script := writeFile(t, "broken.yaml", "steps: [[[")
	_, err := execute(t, "--config", quietConfig(t), "replay", script)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrReplayFailed))
	assert.Contains(t, err.Error(), script)
}

func TestReplayCommand_RequiresScript(t *testing.T) {
	_, err := execute(t, "--config", quietConfig(t), "replay")
	require.Error(t, err)
}

func stubDesktop(t *testing.T, open func(win32.Options) (*win32.Session, error)) {
	t.Helper()
	prev := openDesktop
	openDesktop = open
	t.Cleanup(func() { openDesktop = prev })
}

func TestRunCommand_DesktopUnavailable(t *testing.T) {
	stubDesktop(t, func(win32.Options) (*win32.Session, error) {
		return nil, win32.ErrUnsupportedPlatform
	})
	_, err := execute(t, "--config", quietConfig(t), "run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, win32.ErrUnsupportedPlatform))
}

func TestRunCommand_PumpsUntilBackendEnds(t *testing.T) {
	events := make(chan schemas.InputEvent)
	close(events)

	var got win32.Options
	stubDesktop(t, func(opts win32.Options) (*win32.Session, error) {
		got = opts
		return &win32.Session{
			Windows:  &mocks.MockUIQuery{},
			Keys:     mocks.KeysUp(),
			Commands: &mocks.MockCommander{},
			Backend:  hook.ChannelBackend{Events: events},
		}, nil
	})

	_, err := execute(t, "--config", quietConfig(t), "run")
	require.NoError(t, err)
	assert.True(t, got.Mouse)
	assert.True(t, got.Keyboard)
	assert.Equal(t, "Chrome_WidgetWin_", got.ClassPrefix)
	assert.NotNil(t, got.Logger)
}

func TestRunCommand_StopsOnCancel(t *testing.T) {
	stubDesktop(t, func(win32.Options) (*win32.Session, error) {
		return &win32.Session{
			Windows:  &mocks.MockUIQuery{},
			Keys:     mocks.KeysUp(),
			Commands: &mocks.MockCommander{},
			Backend:  hook.ChannelBackend{Events: make(chan schemas.InputEvent)},
		}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", quietConfig(t), "run"})
	err := root.ExecuteContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
