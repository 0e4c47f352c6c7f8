package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	logger, captured := NewTestLogger(t)

	logger.Info("dataset loaded", slog.Int("rows", 9994))
	logger.Warn("postal code missing", slog.String("order_id", "US-100"))
	logger.Error("load failed")

	require.Len(t, captured.Records(), 3)

	warns := captured.AtLevel(slog.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "postal code missing", warns[0].Message)

	assert.True(t, captured.ContainsMessage("dataset loaded"))
	assert.False(t, captured.ContainsMessage("never logged"))

	assert.True(t, captured.ContainsAttr("rows", int64(9994)))
	assert.True(t, captured.ContainsAttr("order_id", "US-100"))
	assert.False(t, captured.ContainsAttr("rows", int64(1)))
}

func TestLogCaptureSharedStream(t *testing.T) {
	logger, captured := NewTestLogger(t)

	child := logger.With(slog.String("component", "loader"))
	child.Info("parsing header")

	// The derived logger feeds the same capture, with its base attrs
	require.Len(t, captured.Records(), 1)
	assert.True(t, captured.ContainsAttr("component", "loader"))
}

func TestLogCaptureGroups(t *testing.T) {
	logger, captured := NewTestLogger(t)

	logger.WithGroup("clean").Info("dropped duplicates", slog.Int("count", 17))

	assert.True(t, captured.ContainsAttr("clean.count", int64(17)))
}
