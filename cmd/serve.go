package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/scienceol/hintd/internal/client"
	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/hint"
	"github.com/scienceol/hintd/internal/perf"
	"github.com/scienceol/hintd/internal/sysfs"
	"github.com/scienceol/hintd/internal/ui"
	"github.com/spf13/cobra"
)

var (
	flagToken      string
	flagURL        string
	flagPerfSocket string
	flagSysfsRoot  string
)

func init() {
	serveCmd.Flags().StringVar(&flagToken, "token", "", "Broker authentication token")
	serveCmd.Flags().StringVar(&flagURL, "url", "", "Broker websocket URL (e.g. wss://broker.example.com/hints/v1)")
	serveCmd.Flags().StringVar(&flagPerfSocket, "perf-socket", "", "Unix socket of the perf-lock service (default: /dev/socket/perfd)")
	serveCmd.Flags().StringVar(&flagSysfsRoot, "sysfs-root", "", "Directory prepended to sysfs paths (default: /)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the hint broker and apply hints on this device",
	Long: `Connects to the hint broker and applies every hint it delivers, one at
a time, through the perf-lock service and sysfs.

The connection automatically reconnects with exponential backoff if
interrupted. Locks held at shutdown are left to expire in the service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Banner(version)

		cfg, err := config.Load(config.Flags{
			ConfigPath: flagConfig,
			URL:        flagURL,
			Token:      flagToken,
			PerfSocket: flagPerfSocket,
			SysfsRoot:  flagSysfsRoot,
			LogLevel:   flagLogLevel,
		})
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if cfg.Tuning.Cores == 0 {
			cfg.Tuning.Cores = sysfs.CoreCount(0)
		}

		logger := newLogger(cfg.LogLevel, cfg.LogJSON)

		fmt.Fprintln(os.Stderr)
		ui.KeyValue("Broker", cfg.URL)
		ui.KeyValue("Perf socket", cfg.PerfSocket)
		ui.KeyValue("Sysfs root", cfg.SysfsRoot)
		ui.KeyValue("Governor", cfg.Tuning.Governor)
		ui.KeyValue("Cores", strconv.Itoa(cfg.Tuning.Cores))
		ui.Separator()
		ui.Info("Waiting for connection...")

		arbiter := hint.New(hint.Options{
			Perf:   perf.NewSocketClient(cfg.PerfSocket, logger.Named("perf")),
			Sysfs:  sysfs.New(cfg.SysfsRoot),
			Logger: logger.Named("arbiter"),
			Tuning: cfg.Tuning,
		})
		c := client.New(cfg, arbiter, logger.Named("client"))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr)
			ui.Warn("Shutting down...")
			c.Stop()
		}()

		return c.Run()
	},
}
