package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration.
type Config struct {
	// URL is the websocket endpoint of the hint broker.
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	// PerfSocket is the unix socket of the vendor perf-lock service.
	PerfSocket string `yaml:"perf_socket"`

	// SysfsRoot is prepended to every sysfs path. "/" on a device.
	SysfsRoot string `yaml:"sysfs_root"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	Tuning Tuning `yaml:"tuning"`
}

// Tuning holds the board-specific values the arbiter applies.
type Tuning struct {
	// Governor is the scaling governor display and video hints require.
	Governor string `yaml:"governor"`

	// Cores is how many cores are probed for a readable governor.
	// Zero means "ask the system".
	Cores int `yaml:"cores"`

	DisplayHintID int32 `yaml:"display_hint_id"`

	GPU     GPU     `yaml:"gpu"`
	Gesture Gesture `yaml:"gesture"`
}

// GPU lists the devfreq nodes and values used by sustained performance
// and VR modes.
type GPU struct {
	MaxFreqPath  string `yaml:"max_freq_path"`
	MinFreqPath  string `yaml:"min_freq_path"`
	BusSpeedPath string `yaml:"bus_speed_path"`

	SustainedMaxFreq string `yaml:"sustained_max_freq"`
	DefaultMaxFreq   string `yaml:"default_max_freq"`
	VRMinFreq        string `yaml:"vr_min_freq"`
	DefaultMinFreq   string `yaml:"default_min_freq"`
	VRBusSpeed       string `yaml:"vr_bus_speed"`
	DefaultBusSpeed  string `yaml:"default_bus_speed"`
}

// Gesture configures the wake-gesture touch nodes.
type Gesture struct {
	DoubleTapPath string `yaml:"double_tap_path"`
	SweepPath     string `yaml:"sweep_path"`
	VibrationPath string `yaml:"vibration_path"`

	// Mode selects sweep2wake directions; zero means double-tap only.
	Mode int `yaml:"mode"`
	// VibrationStrength is written on enable when >= 0.
	VibrationStrength int `yaml:"vibration_strength"`
}

// Flags carries command-line overrides. Empty fields are ignored.
type Flags struct {
	ConfigPath string
	URL        string
	Token      string
	PerfSocket string
	SysfsRoot  string
	LogLevel   string
}

// Default returns the configuration for an msm8952 board.
func Default() *Config {
	return &Config{
		PerfSocket: "/dev/socket/perfd",
		SysfsRoot:  "/",
		LogLevel:   "info",
		Tuning: Tuning{
			Governor:      "interactive",
			DisplayHintID: 0x0C00,
			GPU: GPU{
				MaxFreqPath:      "/sys/class/kgsl/kgsl-3d0/devfreq/max_freq",
				MinFreqPath:      "/sys/class/kgsl/kgsl-3d0/devfreq/min_freq",
				BusSpeedPath:     "/sys/class/devfreq/gpubw/min_freq",
				SustainedMaxFreq: "432000000",
				DefaultMaxFreq:   "600000000",
				VRMinFreq:        "432000000",
				DefaultMinFreq:   "266666667",
				VRBusSpeed:       "2929",
				DefaultBusSpeed:  "0",
			},
			Gesture: Gesture{
				DoubleTapPath:     "/sys/android_touch/doubletap2wake",
				SweepPath:         "/sys/android_touch/sweep2wake",
				VibrationPath:     "/sys/android_touch/vib_strength",
				VibrationStrength: -1,
			},
		},
	}
}

// Load resolves configuration from defaults < config file < env < flags.
func Load(flags Flags) (*Config, error) {
	cfg := Default()

	// 1. Config file on top of the defaults
	path, explicit := flags.ConfigPath, true
	if path == "" {
		path = os.Getenv("HINTD_CONFIG")
	}
	if path == "" {
		path, explicit = defaultConfigPath(), false
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case explicit || !os.IsNotExist(err):
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// 2. Environment variables override the file
	overrideString(&cfg.URL, os.Getenv("HINTD_URL"))
	overrideString(&cfg.Token, os.Getenv("HINTD_TOKEN"))
	overrideString(&cfg.PerfSocket, os.Getenv("HINTD_PERF_SOCKET"))
	overrideString(&cfg.SysfsRoot, os.Getenv("HINTD_SYSFS_ROOT"))
	overrideString(&cfg.LogLevel, os.Getenv("HINTD_LOG_LEVEL"))

	// 3. CLI flags override everything
	overrideString(&cfg.URL, flags.URL)
	overrideString(&cfg.Token, flags.Token)
	overrideString(&cfg.PerfSocket, flags.PerfSocket)
	overrideString(&cfg.SysfsRoot, flags.SysfsRoot)
	overrideString(&cfg.LogLevel, flags.LogLevel)

	if cfg.Tuning.Governor == "" {
		cfg.Tuning.Governor = "interactive"
	}
	if cfg.Tuning.Cores < 0 {
		return nil, fmt.Errorf("tuning.cores must not be negative, got %d", cfg.Tuning.Cores)
	}

	root, err := filepath.Abs(cfg.SysfsRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid sysfs root: %w", err)
	}
	cfg.SysfsRoot = root

	return cfg, nil
}

// Validate checks the fields the serve command cannot run without.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("broker token is required (--token, HINTD_TOKEN, or config file)")
	}
	if c.URL == "" {
		return fmt.Errorf("broker URL is required (--url, HINTD_URL, or config file)")
	}
	if c.PerfSocket == "" {
		return fmt.Errorf("perf socket path is required (--perf-socket, HINTD_PERF_SOCKET, or config file)")
	}
	return nil
}

func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hintd", "config.yaml")
}
