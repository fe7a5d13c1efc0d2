package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetarby/rwsim"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "reader-priority", cfg.Simulation.Policy)
	assert.Equal(t, 40, cfg.Simulation.MaxTicks)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.TickInterval)
	assert.True(t, cfg.Simulation.CheckInvariants)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Output.Color)
	assert.Empty(t, cfg.Validate())

	kind, err := cfg.Simulation.PolicyKind()
	require.NoError(t, err)
	assert.Equal(t, rwsim.ReaderPriority, kind)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Policy = "lottery"
	cfg.Simulation.MaxTicks = -1
	cfg.Simulation.TickInterval = 0
	cfg.Logging.Level = "loud"

	errs := cfg.Validate()
	require.Len(t, errs, 4)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"simulation.policy",
		"simulation.max_ticks",
		"simulation.tick_interval",
		"logging.level",
	}, fields)

	msg := ValidationErrors(errs).Error()
	assert.Contains(t, msg, "4 validation errors")
	assert.Contains(t, msg, "lottery")
}

func TestValidationErrors_Single(t *testing.T) {
	errs := ValidationErrors{{Field: "simulation.max_ticks", Value: -2, Message: "must be zero or positive"}}
	assert.Equal(t, "simulation.max_ticks: must be zero or positive (got: -2)", errs.Error())
	assert.Equal(t, "", ValidationErrors(nil).Error())
}

func TestLoad_FromFileWithDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "simulation:\n  policy: fair\n  tick_interval: 10ms\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	SetDefaults()
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fair", cfg.Simulation.Policy)
	assert.Equal(t, 10*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 40, cfg.Simulation.MaxTicks, "unset keys keep their default")
	assert.True(t, cfg.Simulation.CheckInvariants)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("simulation.policy", "nope")

	cfg, err := Load()
	assert.Nil(t, cfg)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "simulation.policy", verrs[0].Field)
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/rwsim", ConfigDir())
	assert.Equal(t, "/tmp/xdg/rwsim/config.yaml", ConfigFile())
}
