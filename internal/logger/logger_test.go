package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"geoaddr/internal/config"
	"geoaddr/internal/logger"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LogConfig
		debug  bool
		errors bool
	}{
		{"console debug", config.LogConfig{Level: "debug", Format: "console"}, true, true},
		{"json info", config.LogConfig{Level: "info", Format: "json"}, false, true},
		{"upper case", config.LogConfig{Level: "WARN", Format: "JSON"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, log.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.errors, log.Core().Enabled(zap.ErrorLevel))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "loud"})

	assert.Error(t, err)
}
