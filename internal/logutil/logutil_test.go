package logutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogConfigLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, (&LogConfig{Level: "DEBUG"}).getLevel().Level())
	require.Equal(t, zapcore.InfoLevel, (&LogConfig{Level: "chatty"}).getLevel().Level())
}

func TestNewNop(t *testing.T) {
	logger, err := New(nil)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewRejectsFormat(t *testing.T) {
	_, err := New(&LogConfig{Format: "xml"})
	require.Error(t, err)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridview.log")
	logger, sync, err := Setup(&LogConfig{Level: "debug", Format: "json", Filename: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Debug("event applied", zap.String("event", "sort"))
	zap.L().Info("through globals")
	sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"event applied"`)
	require.Contains(t, string(data), `"event":"sort"`)
	require.Contains(t, string(data), "through globals")
}
