package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all tunables for a destination peer.
type Config struct {
	Pool    PoolConfig
	Quota   QuotaConfig
	Fd      FdConfig
	Logging LogConfig
}

// PoolConfig sizes the destination's shared memory pool.
type PoolConfig struct {
	Capacity int `envconfig:"POOL_CAPACITY" default:"1048576"`
}

// QuotaConfig caps per-user in-flight resources against one destination.
type QuotaConfig struct {
	MaxBytes   int `envconfig:"QUOTA_MAX_BYTES" default:"262144"`
	MaxHandles int `envconfig:"QUOTA_MAX_HANDLES" default:"256"`
	MaxFds     int `envconfig:"QUOTA_MAX_FDS" default:"64"`
}

// FdConfig sizes the destination's descriptor table.
type FdConfig struct {
	TableSize int `envconfig:"FD_TABLE_SIZE" default:"1024"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			Capacity: 1 << 20,
		},
		Quota: QuotaConfig{
			MaxBytes:   256 << 10,
			MaxHandles: 256,
			MaxFds:     64,
		},
		Fd: FdConfig{
			TableSize: 1024,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
