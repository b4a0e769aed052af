package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
// Every default reproduces the conventional layout, so a bare run needs none.
type Config struct {
	InputPath  string
	OutputDir  string
	DateColumn string
	TempColumn string

	LogLevel  string
	LogFormat string

	// MetricsTextfile, when set, receives a Prometheus text-format dump of the
	// run metrics for the node-exporter textfile collector.
	MetricsTextfile string

	// Chart canvas size in inches.
	ChartWidth  float64
	ChartHeight float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	width, err := parseInches("CHART_WIDTH", "12")
	if err != nil {
		return nil, err
	}
	height, err := parseInches("CHART_HEIGHT", "6")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:       sharedcfg.EnvOrDefault("INPUT_PATH", "Data/1905-2019sst.csv"),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "Figs"),
		DateColumn:      sharedcfg.EnvOrDefault("DATE_COLUMN", "COLLECTION_DATE"),
		TempColumn:      sharedcfg.EnvOrDefault("TEMP_COLUMN", "Sea Surface Temp Ave C"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		ChartWidth:      width,
		ChartHeight:     height,
	}

	if strings.TrimSpace(cfg.InputPath) == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if strings.TrimSpace(cfg.DateColumn) == "" {
		return nil, errors.New("DATE_COLUMN is required")
	}
	if strings.TrimSpace(cfg.TempColumn) == "" {
		return nil, errors.New("TEMP_COLUMN is required")
	}
	if cfg.DateColumn == cfg.TempColumn {
		return nil, errors.New("DATE_COLUMN and TEMP_COLUMN must differ")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func parseInches(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || !(v > 0) || math.IsInf(v, 1) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
