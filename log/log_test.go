package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": LevelDebug,
		"info":  LevelInfo,
		"Warn":  LevelWarn,
		"error": LevelError,
		"crit":  LevelCrit,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestModuleGating(t *testing.T) {
	var buf bytes.Buffer
	old := Root()
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(&buf, LevelTrace)))
	defer SetDefault(old)

	DisableModule(CodecMonitoring)
	Debug(CodecMonitoring, "hidden record")
	assert.Zero(t, buf.Len())

	EnableModule(CodecMonitoring)
	defer DisableModule(CodecMonitoring)
	Debug(CodecMonitoring, "visible record")
	assert.Contains(t, buf.String(), "visible record")

	// Info and above ignore the module gate
	buf.Reset()
	DisableModule(CodecMonitoring)
	Info(CodecMonitoring, "always shown")
	assert.Contains(t, buf.String(), "always shown")
}

func TestEnableModules(t *testing.T) {
	DisableModule(StoreMonitoring)
	DisableModule(SignalMonitoring)
	EnableModules("store_mod, signal_mod")
	assert.True(t, isModuleEnabled(StoreMonitoring))
	assert.True(t, isModuleEnabled(SignalMonitoring))

	DisableModule(StoreMonitoring)
	EnableModules("all")
	assert.True(t, isModuleEnabled(StoreMonitoring))
	assert.True(t, isModuleEnabled(CodecMonitoring))
}
