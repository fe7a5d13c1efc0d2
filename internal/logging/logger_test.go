package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetarby/rwsim"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestNewLogger_WritesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := NewLogger(dir, "debug")
	require.NoError(t, err)
	l.Info("run started", "participants", 5)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close is a no-op")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	lines := decodeLines(t, data)
	require.Len(t, lines, 1)
	assert.Equal(t, "run started", lines[0]["msg"])
	assert.Equal(t, float64(5), lines[0]["participants"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	assert.Len(t, decodeLines(t, buf.Bytes()), 2)
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "chatty")

	l.Debug("hidden")
	l.Info("shown")

	assert.Len(t, decodeLines(t, buf.Bytes()), 1)
}

func TestLogger_ChildAttributes(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriterLogger(&buf, "debug")

	child := root.WithPolicy(rwsim.FairAccess).WithParticipant(2, rwsim.Writer).With("tick", 4, 99, "ignored")
	child.Debug("entered")
	root.Debug("plain")

	lines := decodeLines(t, buf.Bytes())
	require.Len(t, lines, 2)
	assert.Equal(t, "fair", lines[0]["policy"])
	assert.Equal(t, float64(2), lines[0]["participant"])
	assert.Equal(t, "Writer", lines[0]["role"])
	assert.Equal(t, float64(4), lines[0]["tick"])
	assert.NotContains(t, lines[1], "policy")
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	assert.NotPanics(t, func() {
		l.Info("discarded")
		assert.NoError(t, l.Close())
	})
	assert.Equal(t, []string{"DEBUG", "INFO", "WARN", "ERROR"}, ValidLevels())
}
