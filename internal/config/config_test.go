package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/flows.xlsx", cfg.WorkbookPath)
	assert.Equal(t, "Selected", cfg.WorkbookSheet)
	assert.Empty(t, cfg.FloodPeriodsFile)
	assert.True(t, cfg.SampleFallback)
	assert.Equal(t, uint64(42), cfg.SampleSeed)
	assert.Equal(t, 128, cfg.ChartCacheSize)
	assert.Equal(t, ":8050", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "flood-flow-statistics", cfg.KafkaStatsTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WORKBOOK_PATH", "/data/marala.xlsx")
	t.Setenv("WORKBOOK_SHEET", "Flows")
	t.Setenv("FLOOD_PERIODS_FILE", "/etc/floods.yaml")
	t.Setenv("SAMPLE_FALLBACK", "false")
	t.Setenv("SAMPLE_SEED", "7")
	t.Setenv("CHART_CACHE_SIZE", "16")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_STATS_TOPIC", "custom-stats")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/marala.xlsx", cfg.WorkbookPath)
	assert.Equal(t, "Flows", cfg.WorkbookSheet)
	assert.Equal(t, "/etc/floods.yaml", cfg.FloodPeriodsFile)
	assert.False(t, cfg.SampleFallback)
	assert.Equal(t, uint64(7), cfg.SampleSeed)
	assert.Equal(t, 16, cfg.ChartCacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-stats", cfg.KafkaStatsTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidSampleSeed(t *testing.T) {
	t.Setenv("SAMPLE_SEED", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAMPLE_SEED")
}

func TestLoad_InvalidSampleFallback(t *testing.T) {
	t.Setenv("SAMPLE_FALLBACK", "sometimes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAMPLE_FALLBACK")
}

func TestLoad_InvalidKafkaEnabled(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes please")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_ENABLED")
}

func TestLoad_InvalidChartCacheSizeFallsBack(t *testing.T) {
	t.Setenv("CHART_CACHE_SIZE", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.ChartCacheSize)
}

func TestLoadFloodCalendar_Default(t *testing.T) {
	cal, err := LoadFloodCalendar("")
	require.NoError(t, err)
	assert.Equal(t, []int{2014, 2022, 2023}, cal.Years())
}

func TestLoadFloodCalendar_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floods.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
floods:
  - year: 2022
    start: 2022-08-20
    end: 2022-09-10
    color: "rgba(255, 165, 0, 0.3)"
  - year: 2010
    start: "2010-07-28"
    end: "2010-08-20"
`), 0o600))

	cal, err := LoadFloodCalendar(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2022}, cal.Years())

	p, err := cal.Period(2022)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.August, 20, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2022, time.September, 10, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, "rgba(255, 165, 0, 0.3)", p.Color)
}

func TestLoadFloodCalendar_MissingFile(t *testing.T) {
	_, err := LoadFloodCalendar(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read flood periods file")
}

func TestParseFloodCalendar_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"malformed yaml", "floods: [", "parse flood periods"},
		{"bad start", "floods:\n  - year: 2014\n    start: 06/09/2014\n    end: 2014-09-16\n", "invalid start"},
		{"bad end", "floods:\n  - year: 2014\n    start: 2014-09-06\n    end: soon\n", "invalid end"},
		{"duplicate year", "floods:\n  - {year: 2014, start: 2014-09-06, end: 2014-09-16}\n  - {year: 2014, start: 2014-07-01, end: 2014-07-02}\n", "duplicate year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFloodCalendar([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
