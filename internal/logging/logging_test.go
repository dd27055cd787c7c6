package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		verbose bool
		level   zapcore.Level
		enabled bool
	}{
		{true, zapcore.DebugLevel, true},
		{false, zapcore.DebugLevel, false},
		{false, zapcore.InfoLevel, false},
		{false, zapcore.WarnLevel, true},
	}

	for _, tt := range tests {
		logger, err := New(tt.verbose)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", tt.verbose, err)
		}
		if got := logger.Core().Enabled(tt.level); got != tt.enabled {
			t.Errorf("New(%v) enabled %s = %v, want %v", tt.verbose, tt.level, got, tt.enabled)
		}
	}
}
