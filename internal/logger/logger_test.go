package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "info", LogLevel(42).String())
}

func TestNew_RespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: LevelWarn, Format: "json"})

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept", "user_id", 42)
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"user_id":42`)
}

func TestInitWithConfig_File(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() {
		globalLogger = prev
		slog.SetDefault(prev)
	})

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelInfo, OutputPath: path, Format: "text"}))

	Info("bot started", "mode", "polling")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode=polling")
}
