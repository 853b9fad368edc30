package influx

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/pkg/core"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatsPoint(t *testing.T) {
	at := time.Unix(1700000000, 0)
	p := BuildStatsPoint(core.BuildStats{Document: "Trails", Placemarks: 7, Skipped: 2, Duration: 1500 * time.Microsecond}, at)

	line := influxdb2_write.PointToLineProtocol(p, time.Second)
	assert.Contains(t, line, "kml_build,document=Trails ")
	assert.Contains(t, line, "placemarks=7i")
	assert.Contains(t, line, "skipped=2i")
	assert.Contains(t, line, "duration_ms=1.5")
	assert.Contains(t, line, " 1700000000")
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{})
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
}

func TestWritePoint_NotConnected(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{})
	assert.Error(t, m.WriteBuildStats(core.BuildStats{}, time.Now()))
	assert.NoError(t, m.Close())
}

func TestConnect_UnreachableUsesBackup(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	m := NewManager(zerolog.New(&logs), config.InfluxConfig{
		Enabled:   true,
		Protocol:  "http",
		Host:      "127.0.0.1",
		Port:      "1",
		Org:       "kmlscene",
		Bucket:    "builds",
		BackupDir: dir,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	assert.False(t, m.IsValid)
	assert.Contains(t, logs.String(), "backup file")

	require.NoError(t, m.WriteBuildStats(core.BuildStats{Document: "a", Placemarks: 1}, time.Now()))
	require.NoError(t, m.WriteBuildStats(core.BuildStats{Document: "b", Placemarks: 2}, time.Now()))
	require.NoError(t, m.Close())

	f, err := os.Open(m.BackupPath())
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	assert.Contains(t, string(data), "kml_build,document=a ")
	assert.Contains(t, string(data), "kml_build,document=b ")
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}
