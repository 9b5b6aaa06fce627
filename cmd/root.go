package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "hintd",
	Short: "hintd — power hint arbitration for msm8952 boards",
	Long: `hintd turns power hints (touches, display state, video encoding,
sustained performance and VR modes) into performance-lock requests and
sysfs writes.

Hints arrive from a broker over a websocket. Locks are requested from the
vendor perf service over its unix socket. No inbound ports are opened.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.hintd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Logs go to stderr next to the
// interactive output.
func newLogger(level string, json bool) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "hintd",
		Level:      hclog.LevelFromString(level),
		Output:     os.Stderr,
		JSONFormat: json,
	})
}
