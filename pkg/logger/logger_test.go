package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestInit_Singleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	log := Get()
	log.Info().Msg("hello")

	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}

func TestGet_DisabledBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.NotPanics(t, func() { log := Get(); log.Error().Msg("dropped") })
	assert.Equal(t, zerolog.Disabled, Get().GetLevel())
}

func TestReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Reset()
	Init(Options{Output: &second})

	log := Get()
	log.Info().Msg("after reset")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "after reset")
}

func TestNew_LeavesGlobalAlone(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	l := New(Options{Level: "warn", Output: &buf})
	l.Info().Msg("filtered")
	l.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "filtered")
	assert.Contains(t, buf.String(), "kept")
	assert.Equal(t, zerolog.Disabled, Get().GetLevel())
}

func TestKV(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKV(zerolog.New(&buf).Level(zerolog.InfoLevel))

	kv.Debug("dropped", "k", "v")
	kv.Info("Session restored", "user_id", "u1", "role", "store-owner")
	kv.Warn("Failed to clear session token", "error", errors.New("disk full"))
	kv.Error("odd", "dangling")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Session restored", entry["message"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "store-owner", entry["role"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "warn", entry["level"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	assert.Equal(t, "(MISSING)", entry["dangling"])
}
