package config

import (
	"fmt"
	"log/slog"
)

// Config is the complete CLI configuration.
type Config struct {
	Data    DataConfig    `koanf:"data"`
	Cluster ClusterConfig `koanf:"cluster"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	// Path is a file path for the local backend and an object name otherwise.
	Path     string `koanf:"path" validate:"required"`
	Backend  string `koanf:"backend" validate:"oneof=local minio s3"`
	Bucket   string `koanf:"bucket" validate:"required_unless=Backend local"`
	Prefix   string `koanf:"prefix"`
	Endpoint string `koanf:"endpoint" validate:"required_if=Backend minio"`
	Region   string `koanf:"region"`
	UseSSL   bool   `koanf:"use_ssl"`

	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`

	// PutRate limits dataset writes per second on remote backends. Zero is unlimited.
	PutRate  float64 `koanf:"put_rate" validate:"gte=0"`
	PutBurst int     `koanf:"put_burst" validate:"gte=0"`

	// LockTable names a DynamoDB table used as a writer lease for the s3 backend.
	LockTable string `koanf:"lock_table" validate:"excluded_unless=Backend s3"`
}

// ClusterConfig controls training.
type ClusterConfig struct {
	K          int `koanf:"k" validate:"gte=1"`
	Iterations int `koanf:"iterations" validate:"gte=1"`
	// Seed fixes centroid initialization. Zero seeds from the clock.
	Seed        int64  `koanf:"seed"`
	Workers     int    `koanf:"workers" validate:"gte=0"`
	EmptyPolicy string `koanf:"empty_policy" validate:"oneof=keep reseed fail"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// File receives the Prometheus text exposition when a command finishes.
	File string `koanf:"file"`
}

func defaultConfig() Config {
	return Config{
		Data: DataConfig{
			Path:     "test.csv",
			Backend:  "local",
			UseSSL:   true,
			PutBurst: 1,
		},
		Cluster: ClusterConfig{
			K:           1,
			Iterations:  100,
			EmptyPolicy: "keep",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SlogLevel returns the configured log level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	return l, nil
}
