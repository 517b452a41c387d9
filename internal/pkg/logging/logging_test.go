package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg  Config
		want zapcore.Level
	}{
		{Config{Level: "debug", Format: "json"}, zapcore.DebugLevel},
		{Config{Level: "warn", Format: "console"}, zapcore.WarnLevel},
		{Config{Level: "nonsense"}, zapcore.InfoLevel},
		{Config{}, zapcore.InfoLevel},
	}

	for _, tc := range tests {
		log, err := New(tc.cfg)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tc.want), "level %s", tc.want)
		if tc.want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(tc.want-1), "level below %s", tc.want)
		}
	}
}
