package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a fresh command tree with args and returns captured output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "rwsim", root.Use)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "generate", "policies"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRunCommand(t *testing.T) {
	path := writeManifest(t, "5\nR 3\nR 4\nW 3\nR 1\nW 4\n")

	out, err := executeCommand(t, "run", path, "--policy", "fair", "--tick", "5ms", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Number of players = 5")
	assert.Contains(t, out, "Policy: fair")
	assert.Contains(t, out, "** Writer 2 is created")
	assert.Contains(t, out, "-> Reader 3 enters critical section, duration=1")
	assert.Contains(t, out, "critical=2")
	assert.NotContains(t, out, "waits for the critical section")
	assert.Equal(t, 5, strings.Count(out, "exits critical section"))
}

func TestRunCommand_Verbose(t *testing.T) {
	path := writeManifest(t, "1\nW 1\n")

	out, err := executeCommand(t, "run", path, "--tick", "2ms", "-v", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, ".. Writer 0 waits for the critical section")
	assert.Contains(t, out, "policy=reader-priority")
}

func TestRunCommand_CheckFlag(t *testing.T) {
	path := writeManifest(t, "2\nR 1\nW 1\n")

	_, err := executeCommand(t, "run", path, "--tick", "2ms", "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, viper.GetBool("simulation.check_invariants"))

	_, err = executeCommand(t, "run", path, "--tick", "2ms", "--log-level", "error", "--check=false")
	require.NoError(t, err)
	assert.False(t, viper.GetBool("simulation.check_invariants"))

	_, err = executeCommand(t, "run", path, "--no-check")
	assert.Error(t, err)
}

func TestRunCommand_ConfigFile(t *testing.T) {
	path := writeManifest(t, "2\nW 1\nW 1\n")
	cfgPath := filepath.Join(t.TempDir(), "rwsim.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("simulation:\n  policy: exclusive\n  tick_interval: 2ms\nlogging:\n  level: error\n"), 0644))

	out, err := executeCommand(t, "--config", cfgPath, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "policy=exclusive")
}

func TestRunCommand_Errors(t *testing.T) {
	_, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "missing.txt"), "--tick", "1ms")
	assert.Error(t, err)

	bad := writeManifest(t, "1\nX 3\n")
	_, err = executeCommand(t, "run", bad, "--tick", "1ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")

	good := writeManifest(t, "0\n")
	_, err = executeCommand(t, "run", good, "--policy", "lottery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.policy")

	_, err = executeCommand(t, "run")
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	out, err := executeCommand(t, "generate", "--readers", "2", "--writers", "1", "--seed", "9")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "3", lines[0])
	assert.Equal(t, 1, strings.Count(out, "W  "))

	again, err := executeCommand(t, "generate", "--readers", "2", "--writers", "1", "--seed", "9")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenerateCommand_ToFileThenRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.txt")
	_, err := executeCommand(t, "generate", "-r", "3", "-w", "2", "-d", "2", "-o", path)
	require.NoError(t, err)

	out, err := executeCommand(t, "run", path, "--policy", "reader-priority", "--tick", "2ms", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Number of players = 5")
	assert.Contains(t, out, "critical=2")
}

func TestGenerateCommand_Invalid(t *testing.T) {
	_, err := executeCommand(t, "generate", "--max-duration", "0")
	assert.Error(t, err)
}

func TestPoliciesCommand(t *testing.T) {
	out, err := executeCommand(t, "policies")
	require.NoError(t, err)

	for _, name := range []string{"unrestricted", "exclusive", "reader-priority", "fair"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "* reader-priority")
}
