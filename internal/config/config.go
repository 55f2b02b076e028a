package config

import (
	"fmt"
	"os"

	"github.com/wb-go/wbf/config"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr               string `mapstructure:"addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
	ReadTimeoutSec     int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec    int    `mapstructure:"write_timeout_sec"`
}

type WatchConfig struct {
	Dir              string `mapstructure:"dir"`
	DebounceMs       int    `mapstructure:"debounce_ms"`
	AddRetries       int    `mapstructure:"add_retries"`
	AddRetryDelaySec int    `mapstructure:"add_retry_delay_sec"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load(path string) (*Config, error) {
	cfg := config.New()

	configPath := path
	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		} else if _, err := os.Stat("/app/config.yaml"); err == nil {
			configPath = "/app/config.yaml"
		} else {
			return nil, fmt.Errorf("config.yaml not found")
		}
	}

	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = ""
	}

	if err := cfg.Load(configPath, envPath, "APP"); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appConfig := &Config{}
	if err := cfg.Unmarshal(appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(appConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return appConfig, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Server.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("server.shutdown_timeout_sec must be positive")
	}
	if cfg.Server.ReadTimeoutSec <= 0 {
		return fmt.Errorf("server.read_timeout_sec must be positive")
	}
	if cfg.Server.WriteTimeoutSec <= 0 {
		return fmt.Errorf("server.write_timeout_sec must be positive")
	}

	if cfg.Watch.Dir == "" {
		return fmt.Errorf("watch.dir is required")
	}
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be non-negative")
	}
	if cfg.Watch.AddRetries < 0 {
		return fmt.Errorf("watch.add_retries must be non-negative")
	}
	if cfg.Watch.AddRetryDelaySec < 0 {
		return fmt.Errorf("watch.add_retry_delay_sec must be non-negative")
	}

	if cfg.Logging.Level == "" {
		return fmt.Errorf("logging.level is required")
	}

	return nil
}
