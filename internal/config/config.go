package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	WorkbookPath     string
	WorkbookSheet    string
	FloodPeriodsFile string
	SampleFallback   bool
	SampleSeed       uint64
	ChartCacheSize   int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Statistics publishing (optional).
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaStatsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sampleSeed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("SAMPLE_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid SAMPLE_SEED")
	}

	sampleFallback, err := strconv.ParseBool(sharedcfg.EnvOrDefault("SAMPLE_FALLBACK", "true"))
	if err != nil {
		return nil, errors.New("invalid SAMPLE_FALLBACK")
	}

	kafkaEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid KAFKA_ENABLED")
	}

	cfg := &Config{
		WorkbookPath:     sharedcfg.EnvOrDefault("WORKBOOK_PATH", "data/flows.xlsx"),
		WorkbookSheet:    sharedcfg.EnvOrDefault("WORKBOOK_SHEET", "Selected"),
		FloodPeriodsFile: os.Getenv("FLOOD_PERIODS_FILE"),
		SampleFallback:   sampleFallback,
		SampleSeed:       sampleSeed,
		ChartCacheSize:   parseChartCacheSize(),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8050"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaStatsTopic: sharedcfg.EnvOrDefault("KAFKA_STATS_TOPIC", "flood-flow-statistics"),
	}

	if cfg.WorkbookPath == "" {
		return nil, errors.New("WORKBOOK_PATH is required")
	}
	if cfg.WorkbookSheet == "" {
		return nil, errors.New("WORKBOOK_SHEET is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaStatsTopic == "" {
		return nil, errors.New("KAFKA_STATS_TOPIC is required")
	}

	return cfg, nil
}

func parseChartCacheSize() int {
	if s := os.Getenv("CHART_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 128
}
