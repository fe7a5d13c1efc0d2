package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/thetarby/rwsim"
)

// Config represents the complete rwsim configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Output     OutputConfig     `mapstructure:"output"`
}

// SimulationConfig controls the access policy and the simulated clock
type SimulationConfig struct {
	// Policy selects the access discipline.
	// Options: "unrestricted", "exclusive", "reader-priority", "fair"
	Policy string `mapstructure:"policy"`
	// MaxTicks is the clock's tick budget (default: 40)
	MaxTicks int `mapstructure:"max_ticks"`
	// TickInterval is the wall-clock length of one tick (default: 250ms)
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// CheckInvariants enables the occupancy monitor (default: true)
	CheckInvariants bool `mapstructure:"check_invariants"`
}

// LoggingConfig controls structured debug logging
type LoggingConfig struct {
	// Level is the minimum level written: debug, info, warn, error (default: warn)
	Level string `mapstructure:"level"`
	// Dir is where rwsim.log is written; empty means stderr
	Dir string `mapstructure:"dir"`
}

// OutputConfig controls the human-readable trace
type OutputConfig struct {
	// Verbose also prints the waiting step of every participant
	Verbose bool `mapstructure:"verbose"`
	// Color enables styled output when stdout is a terminal (default: true)
	Color bool `mapstructure:"color"`
}

// Default returns the default configuration: reader-priority, a budget
// of 40 ticks and a quarter-second tick.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Policy:          rwsim.ReaderPriority.String(),
			MaxTicks:        40,
			TickInterval:    250 * time.Millisecond,
			CheckInvariants: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
			Dir:   "",
		},
		Output: OutputConfig{
			Verbose: false,
			Color:   true,
		},
	}
}

// PolicyKind returns the parsed policy. Validate reports unknown names.
func (c *SimulationConfig) PolicyKind() (rwsim.Kind, error) {
	return rwsim.ParseKind(c.Policy)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("simulation.policy", defaults.Simulation.Policy)
	viper.SetDefault("simulation.max_ticks", defaults.Simulation.MaxTicks)
	viper.SetDefault("simulation.tick_interval", defaults.Simulation.TickInterval)
	viper.SetDefault("simulation.check_invariants", defaults.Simulation.CheckInvariants)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("output.verbose", defaults.Output.Verbose)
	viper.SetDefault("output.color", defaults.Output.Color)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rwsim")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rwsim"
	}
	return filepath.Join(home, ".config", "rwsim")
}

// ConfigFile returns the default config file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
