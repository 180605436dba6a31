package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "hotsplit", configBaseName)
	assert.Equal(t, "hotsplit.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "entry", entryFlagName)
	assert.Equal(t, "locals-name", localsNameFlagName)
	assert.Equal(t, "parallel", buildParallelFlagName)
	assert.Equal(t, "build.parallel", buildParallelConfigKey)
	assert.Equal(t, "watch.interval", watchIntervalKey)
	assert.Equal(t, "hotsplit.manifest.yaml", defaultManifestName)
	assert.Equal(t, 1, defaultBuildParallel)
	assert.Equal(t, 500*time.Millisecond, defaultWatchInterval)
	assert.Equal(t, "HOTSPLIT", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "ERROR", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}
