// config.go - Configuration management for the scanning daemon.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the daemon configuration.
type Config struct {
	// Ledger connection
	RPCEndpoint string `json:"rpc_endpoint"`
	ProgramID   string `json:"program_id"`
	TreeAddress string `json:"tree_address"`

	// Key material
	ViewingKeyFile  string `json:"viewing_key_file"`
	SpendingKeyFile string `json:"spending_key_file"`

	// Behaviour
	ScanIntervalSeconds int `json:"scan_interval_seconds"`

	// Logging
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RPCEndpoint:         "http://127.0.0.1:8899",
		ViewingKeyFile:      "keys/viewing.key",
		SpendingKeyFile:     "keys/spending.key",
		ScanIntervalSeconds: 30,
		LogLevel:            "info",
	}
}

// LoadConfig loads configuration from file, writing the default if the
// file does not exist yet.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		var config Config
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		return &config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to file.
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc_endpoint is required")
	}
	if c.ProgramID == "" {
		return fmt.Errorf("program_id is required")
	}
	if c.TreeAddress == "" {
		return fmt.Errorf("tree_address is required")
	}
	if c.ViewingKeyFile == "" || c.SpendingKeyFile == "" {
		return fmt.Errorf("viewing_key_file and spending_key_file are required")
	}
	if c.ScanIntervalSeconds <= 0 {
		return fmt.Errorf("scan_interval_seconds must be positive")
	}
	return nil
}
