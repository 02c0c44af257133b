package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lumen.log")
	l, err := New("prod", "debug", path)
	require.NoError(t, err)

	l.With("component", "test").Info("hello", "video", 2)
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `"msg":"hello"`), out)
	assert.True(t, strings.Contains(out, `"component":"test"`), out)
	assert.True(t, strings.Contains(out, `"video":2`), out)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("prod", "loud", filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}

func TestEmptyPathIsNop(t *testing.T) {
	l, err := New("prod", "info", "")
	require.NoError(t, err)
	l.Info("dropped")
}

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Debug("d")
	l.Info("i")
	l.Warn("w", "k", "v")
	l.Error("e")

	require.Equal(t, 4, logs.Len())
	warn := logs.FilterMessage("w").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
	assert.Equal(t, "v", warn[0].ContextMap()["k"])
}
