package cmd

import (
	"fmt"
	"os"

	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/replay"
	"github.com/scienceol/hintd/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a hint script against the tuning without touching the device",
	Long: `Runs the hints in a YAML script through the arbiter with an in-memory
sysfs and a recording perf client, on a simulated clock, and prints every
lock request and sysfs write each hint causes.

Example script:

  steps:
    - hint: interaction
      duration_ms: 100
    - after: 300ms
      hint: interaction
      duration_ms: 1200
    - after: 2s
      hint: vr_mode
      enable: true`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Flags{ConfigPath: flagConfig, LogLevel: flagLogLevel})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		script, err := replay.LoadFile(args[0])
		if err != nil {
			return err
		}

		logger := newLogger(cfg.LogLevel, cfg.LogJSON)
		results := replay.Run(script, cfg.Tuning, logger.Named("arbiter"))

		ui.Banner(version)
		fmt.Fprintln(os.Stderr)
		for _, result := range results {
			lines := make([]string, 0, len(result.Actions)+len(result.Writes))
			for _, action := range result.Actions {
				lines = append(lines, action.String())
			}
			for _, write := range result.Writes {
				lines = append(lines, fmt.Sprintf("write %s = %s", write.Path, write.Value))
			}
			ui.Step(fmt.Sprintf("+%.3fs", result.Offset.Seconds()), result.Step.Hint, result.Handled, lines)
		}
		ui.Separator()
		ui.Success("Replayed %d hints", len(results))
		return nil
	},
}
