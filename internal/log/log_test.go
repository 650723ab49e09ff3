package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLoggerTo(Config{Level: LevelWarn, Format: FormatText}, &buf)
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debugf(ctx, "debug line")
	logger.Infof(ctx, "info line")
	logger.Warnf(ctx, "warn line")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "warn line")
}

func TestErrorfIncludesAppErrorCode(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLoggerTo(Config{Level: LevelDebug, Format: FormatJSON}, &buf)
	require.NoError(t, err)

	appErr := apperrors.New(apperrors.CodeTransportError, "socket closed")
	logger.Errorf(context.Background(), appErr, "request failed")

	out := buf.String()
	assert.Contains(t, out, "request failed")
	assert.Contains(t, out, `"error_code":"TRANSPORT_ERROR"`)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLoggerTo(Config{Level: LevelInfo, Format: FormatJSON}, &buf)
	require.NoError(t, err)

	logger.WithFields(map[string]any{"project": "demo"}).Infof(context.Background(), "applied")

	out := buf.String()
	assert.Contains(t, out, `"project":"demo"`)
	assert.Contains(t, out, "applied")
}

func TestFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLoggerTo(Config{Level: LevelInfo, Format: FormatText}, &buf)
	require.NoError(t, err)

	logger.Infof(context.Background(), "created %s with id %d", "template", 7)

	assert.Contains(t, buf.String(), "created template with id 7")
}
