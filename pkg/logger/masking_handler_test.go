package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskingHandlerHidesSensitiveAttributes(t *testing.T) {
	var buf bytes.Buffer

	log := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil)))
	log.Info("connecting",
		slog.String("token", "123:abc"),
		slog.String("refresh_token", "rt-secret"),
		slog.String("host", "localhost"),
	)

	out := buf.String()
	assert.NotContains(t, out, "123:abc")
	assert.NotContains(t, out, "rt-secret")
	assert.Contains(t, out, "***")
	assert.Contains(t, out, "localhost")
}

func TestMaskingHandlerKeepsLevels(t *testing.T) {
	var buf bytes.Buffer

	handler := NewMaskingHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	require.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, handler.Enabled(context.Background(), slog.LevelError))
}
