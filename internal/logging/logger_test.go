package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"production info", "info", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"production warn", "warn", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"development debug", "debug", true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"unknown falls back to info", "chatty", false, zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.development)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}
