package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
	"github.com/xkilldash9x/tabkeeper/internal/dispatch"
	"github.com/xkilldash9x/tabkeeper/internal/hook"
	"github.com/xkilldash9x/tabkeeper/internal/host/cdp"
	"github.com/xkilldash9x/tabkeeper/internal/observability"
	"github.com/xkilldash9x/tabkeeper/internal/platform/win32"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Installs the input hooks and handles tab gestures until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
}

// openDesktop is swapped in tests.
var openDesktop = win32.Open

func run(ctx context.Context, cfg *config.Config) error {
	logger := observability.GetLogger()
	hookCfg, hostCfg := cfg.Hook(), cfg.Host()

	session, err := openDesktop(win32.Options{
		Mouse:       hookCfg.Mouse,
		Keyboard:    hookCfg.Keyboard,
		ClassPrefix: hookCfg.HostWindowClassPrefix,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open desktop session: %w", err)
	}

	var tabs schemas.TabQuery = win32.NoTabState{}
	commands := session.Commands
	if hostCfg.DevToolsURL != "" {
		devtools, err := cdp.Dial(ctx, hostCfg.DevToolsURL, cdp.Options{MaxAge: cdp.DefaultMaxAge, Logger: logger})
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", hostCfg.DevToolsURL, err)
		}
		defer devtools.Close()
		tabs = devtools
		if hostCfg.Backend == config.BackendCDP {
			commands = devtools.Commander(session.Commands)
		}
	} else {
		logger.Warn("No tab state source configured; tab gestures fall back to the browser's own handling")
	}

	d := dispatch.New(cfg.Tabs(),
		schemas.ComposeUI(session.Windows, tabs),
		commands,
		session.Keys,
		dispatch.WithLogger(logger.Named("dispatch")))

	chain := hook.NewChain(nil, logger)
	if _, err := chain.Register(d); err != nil {
		return err
	}

	logger.Info("Input hooks installed",
		zap.Bool("mouse", hookCfg.Mouse),
		zap.Bool("keyboard", hookCfg.Keyboard),
		zap.String("backend", hostCfg.Backend),
		zap.Bool("devtools", hostCfg.DevToolsURL != ""))
	defer logger.Info("Input hooks removed")

	return session.Backend.Run(ctx, chain)
}
