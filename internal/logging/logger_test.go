package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "err=boom"},
		{FormatText, "err=boom"},
		{FormatJSON, `"err":"boom"`},
		{FormatPretty, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewFormat(&buf, tt.format, slog.LevelInfo)
			require.NoError(t, err)
			logger.Info("solve failed", "error", errors.New("boom"))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	_, err := NewFormat(&bytes.Buffer{}, "xml", slog.LevelInfo)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewPretty_NoColor(t *testing.T) {
	var buf bytes.Buffer
	NewPretty(&buf, slog.LevelDebug, true).Debug("stream evaluated", "instance", "sample-pose(cup)")
	assert.Contains(t, buf.String(), "stream evaluated")
	assert.NotContains(t, buf.String(), "\x1b[")
}
