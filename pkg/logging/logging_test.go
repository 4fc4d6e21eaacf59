package logging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
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
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLoggerFromConfigWritesFile(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	path := filepath.Join(t.TempDir(), "run.log")
	logger := NewLoggerFromConfig(&Config{
		Level:  "info",
		Format: "json",
		Output: path,
		Fields: map[string]any{"component": "reconcile"},
	})
	logger.Info().Str("platform", "Talent").Msg("source loaded")
	logger.Debug().Msg("hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"reconcile"`)
	assert.Contains(t, string(data), `"platform":"Talent"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestContextFields(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithRunID(ctx, "run-1")
	ctx = WithPlatform(ctx, "Pharmacy")
	ctx = WithStage(ctx, "match")

	Ctx(ctx).Info().Msg("matching")

	assert.Equal(t, "run-1", RunID(ctx))
	assert.True(t, tl.Contains(`"run_id":"run-1"`))
	assert.True(t, tl.Contains(`"platform":"Pharmacy"`))
	assert.True(t, tl.Contains(`"stage":"match"`))
	assert.Len(t, tl.Lines(), 1)
}

func TestWithFieldsError(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithFields(ctx, map[string]any{"error": errors.New("boom"), "pairs": 3})

	FromContext(ctx).Warn().Msg("narrative failed")

	assert.True(t, tl.Contains(`"error":"boom"`))
	assert.True(t, tl.Contains(`"pairs":3`))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))
	assert.Empty(t, RunID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := CaptureLoggingForTest(t)
	Warn().Str("pair_id", "DUP-1").Msg("tie")
	assert.True(t, tl.Contains("DUP-1"))
}
