package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "kmlscenelogs",
			appName: "kmlscene",
			want:    filepath.Join("kmlscenelogs", "kmlscene.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./kmlscenelogs",
			appName: "kmlscene",
			want:    filepath.Join(".", "kmlscenelogs", "kmlscene.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "kmlscene"),
			appName: "kmlscene",
			want:    filepath.Join("/var", "log", "kmlscene", "kmlscene.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, tt.appName, sessionStart))
		})
	}
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", normalizeLevel("debug"))
	assert.Equal(t, "WARN", normalizeLevel(" warning "))
	assert.Equal(t, "TRACE", normalizeLevel("Trace"))
	assert.Equal(t, "INFO", normalizeLevel("verbose"))
	assert.Equal(t, "INFO", normalizeLevel(""))
}
