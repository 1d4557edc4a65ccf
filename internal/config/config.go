// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// The configuration is read once at startup and never mutated afterwards, so
// there are no setters.
type Interface interface {
	Logger() LoggerConfig
	Tabs() TabConfig
	Hook() HookConfig
	Host() HostConfig
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	TabsCfg   TabConfig    `mapstructure:"tabs" yaml:"tabs"`
	HookCfg   HookConfig   `mapstructure:"hook" yaml:"hook"`
	HostCfg   HostConfig   `mapstructure:"host" yaml:"host"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Tabs() TabConfig      { return c.TabsCfg }
func (c *Config) Hook() HookConfig     { return c.HookCfg }
func (c *Config) Host() HostConfig     { return c.HostCfg }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// NewTabMode selects whether, and how, a gesture opens its target in a new tab.
type NewTabMode string

const (
	NewTabDisabled   NewTabMode = "disabled"
	NewTabForeground NewTabMode = "foreground"
	NewTabBackground NewTabMode = "background"
)

// Valid reports whether m is one of the three known modes.
func (m NewTabMode) Valid() bool {
	switch m {
	case NewTabDisabled, NewTabForeground, NewTabBackground:
		return true
	}
	return false
}

// Enabled reports whether the gesture governed by m is active.
func (m NewTabMode) Enabled() bool {
	return m == NewTabForeground || m == NewTabBackground
}

// TabConfig is the snapshot of gesture toggles consulted by every decision rule.
// It is a plain value and is copied into its consumers.
type TabConfig struct {
	KeepLastTab                  bool       `mapstructure:"keep_last_tab" yaml:"keep_last_tab"`
	DoubleClickClose             bool       `mapstructure:"double_click_close" yaml:"double_click_close"`
	RightClickClose              bool       `mapstructure:"right_click_close" yaml:"right_click_close"`
	WheelTab                     bool       `mapstructure:"wheel_tab" yaml:"wheel_tab"`
	WheelTabWhenPressRightButton bool       `mapstructure:"wheel_tab_when_press_rbutton" yaml:"wheel_tab_when_press_rbutton"`
	WheelTabDisableMenu          bool       `mapstructure:"wheel_tab_disable_menu" yaml:"wheel_tab_disable_menu"`
	BookmarkNewTab               NewTabMode `mapstructure:"bookmark_new_tab" yaml:"bookmark_new_tab"`
	OpenURLNewTab                NewTabMode `mapstructure:"open_url_new_tab" yaml:"open_url_new_tab"`
}

// Validate checks the enum-valued toggles.
func (t *TabConfig) Validate() error {
	if !t.BookmarkNewTab.Valid() {
		return fmt.Errorf("tabs.bookmark_new_tab must be one of disabled, foreground, background (got %q)", t.BookmarkNewTab)
	}
	if !t.OpenURLNewTab.Valid() {
		return fmt.Errorf("tabs.open_url_new_tab must be one of disabled, foreground, background (got %q)", t.OpenURLNewTab)
	}
	return nil
}

// HookConfig controls which input streams are intercepted.
type HookConfig struct {
	Mouse    bool `mapstructure:"mouse" yaml:"mouse"`
	Keyboard bool `mapstructure:"keyboard" yaml:"keyboard"`
	// HostWindowClassPrefix identifies the host's window-class family.
	HostWindowClassPrefix string `mapstructure:"host_window_class_prefix" yaml:"host_window_class_prefix"`
}

// HostConfig selects where tab state and tab commands come from.
type HostConfig struct {
	// Backend is "win32" (window messages and SendInput) or "cdp" (remote debugging
	// endpoint) and selects who executes host commands.
	Backend string `mapstructure:"backend" yaml:"backend"`
	// DevToolsURL is the browser's remote debugging websocket or http endpoint. When
	// set it also supplies tab counts for the win32 backend.
	DevToolsURL string `mapstructure:"devtools_url" yaml:"devtools_url"`
}

const (
	BackendWin32 = "win32"
	BackendCDP   = "cdp"
)

// Validate checks the backend selection.
func (h *HostConfig) Validate() error {
	switch h.Backend {
	case BackendWin32:
		return nil
	case BackendCDP:
		if h.DevToolsURL == "" {
			return fmt.Errorf("host.devtools_url is required when host.backend is %q", BackendCDP)
		}
		return nil
	default:
		return fmt.Errorf("host.backend must be %q or %q (got %q)", BackendWin32, BackendCDP, h.Backend)
	}
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "tabkeeper")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Tabs --
	v.SetDefault("tabs.keep_last_tab", true)
	v.SetDefault("tabs.double_click_close", true)
	v.SetDefault("tabs.right_click_close", false)
	v.SetDefault("tabs.wheel_tab", true)
	v.SetDefault("tabs.wheel_tab_when_press_rbutton", true)
	v.SetDefault("tabs.wheel_tab_disable_menu", true)
	v.SetDefault("tabs.bookmark_new_tab", string(NewTabForeground))
	v.SetDefault("tabs.open_url_new_tab", string(NewTabDisabled))

	// -- Hook --
	v.SetDefault("hook.mouse", true)
	v.SetDefault("hook.keyboard", true)
	v.SetDefault("hook.host_window_class_prefix", "Chrome_WidgetWin_")

	// -- Host --
	v.SetDefault("host.backend", BackendWin32)
	v.SetDefault("host.devtools_url", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.TabsCfg.Validate(); err != nil {
		return err
	}
	if err := c.HostCfg.Validate(); err != nil {
		return err
	}
	if (c.HookCfg.Mouse || c.HookCfg.Keyboard) && c.HookCfg.HostWindowClassPrefix == "" {
		return fmt.Errorf("hook.host_window_class_prefix must not be empty when a hook is enabled")
	}
	return nil
}

// DefaultConfigPath returns ~/.tabkeeper.yaml, or the bare file name when the
// home directory cannot be determined.
func DefaultConfigPath() string {
	path, err := homedir.Expand("~/.tabkeeper.yaml")
	if err != nil {
		return ".tabkeeper.yaml"
	}
	return path
}

// Load reads the configuration file at path (the default path when empty) and
// TABKEEPER_* environment overrides into v. A missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TABKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if explicit || !(notFound || isNotExist(err)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}
	return NewConfigFromViper(v)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
