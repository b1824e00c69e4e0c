package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client's yaml configuration.
type Config struct {
	Server struct {
		URL             string `yaml:"url"`
		DialTimeoutSec  int    `yaml:"dial_timeout_sec"`
		WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	} `yaml:"server"`
	LogLevel string `yaml:"log_level"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the yaml config file when present and fills the gaps from
// environment variables.
func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if config.Server.URL == "" {
		config.Server.URL = getEnv("PARTYQUIZ_SERVER_URL", "ws://localhost:8080/ws")
	}
	if config.Server.DialTimeoutSec == 0 {
		config.Server.DialTimeoutSec = getEnvAsInt("PARTYQUIZ_DIAL_TIMEOUT_SEC", 10)
	}
	if config.Server.WriteTimeoutSec == 0 {
		config.Server.WriteTimeoutSec = getEnvAsInt("PARTYQUIZ_WRITE_TIMEOUT_SEC", 10)
	}
	if config.LogLevel == "" {
		config.LogLevel = getEnv("PARTYQUIZ_LOG_LEVEL", "info")
	}

	return &config, nil
}

func (c *Config) dialTimeout() time.Duration {
	return time.Duration(c.Server.DialTimeoutSec) * time.Second
}

func (c *Config) writeTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSec) * time.Second
}
