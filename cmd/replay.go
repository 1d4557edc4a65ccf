package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tabkeeper/internal/config"
	"github.com/xkilldash9x/tabkeeper/internal/host/sim"
	"github.com/xkilldash9x/tabkeeper/internal/observability"
)

// ErrReplayFailed is returned when any replayed expectation does not hold.
var ErrReplayFailed = errors.New("replay expectations failed")

type replayLine struct {
	Session string `json:"session"`
	Script  string `json:"script"`
	sim.Record
}

type summaryLine struct {
	Session string `json:"session"`
	Kind    string `json:"kind"`
	sim.Summary
}

func newReplayCmd() *cobra.Command {
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>...",
		Short: "Replays scripted input against a simulated browser and reports each decision as JSON lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			session := uuid.New().String()
			enc := json.NewEncoder(cmd.OutOrStdout())
			failed := 0
			for _, path := range args {
				sum, err := replayFile(cmd, cfg, path, session, enc, summaryOnly)
				if err != nil {
					return err
				}
				failed += sum.Failures
			}
			if failed > 0 {
				return fmt.Errorf("%d failed expectations: %w", failed, ErrReplayFailed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print one summary line per script instead of every record")
	return cmd
}

func replayFile(cmd *cobra.Command, cfg *config.Config, path, session string, enc *json.Encoder, summaryOnly bool) (sim.Summary, error) {
	logger := observability.Component("replay")

	f, err := os.Open(path)
	if err != nil {
		return sim.Summary{}, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	script, err := sim.LoadScript(f, cfg.Tabs())
	if err != nil {
		return sim.Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	if script.Name == "" {
		script.Name = path
	}

	runner, err := sim.NewRunner(script, cfg.Hook().HostWindowClassPrefix, logger)
	if err != nil {
		return sim.Summary{}, err
	}

	emit := func(rec sim.Record) error {
		if summaryOnly {
			return nil
		}
		return enc.Encode(replayLine{Session: session, Script: script.Name, Record: rec})
	}
	sum, err := runner.Run(cmd.Context(), emit)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", path, err)
	}
	if err := enc.Encode(summaryLine{Session: session, Kind: "summary", Summary: sum}); err != nil {
		return sum, fmt.Errorf("write summary: %w", err)
	}

	logger.Info("Replayed script",
		zap.String("script", script.Name),
		zap.Int("events", sum.Events),
		zap.Int("consumed", sum.Consumed),
		zap.Int("failures", sum.Failures))
	return sum, nil
}
