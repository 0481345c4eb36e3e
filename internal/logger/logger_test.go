package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG").Level())
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn").Level())
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("").Level())
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty").Level())
}

func TestNewLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.log")
	log := NewLogger(path, "info")
	log.Infow("request listed", "group_id", "g1")
	log.Debugw("dropped")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"group_id":"g1"`)
	assert.Contains(t, lines[0], `"timestamp"`)
}

func TestNewLoggerWithoutPath(t *testing.T) {
	log := NewLogger("", "debug")
	log.Infow("nowhere")
}
