package config

import (
	"fmt"
	"os"

	"github.com/Massinr/cryptotracker/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills optional fields with the observed production values.
func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Provider.VsCurrency == "" {
		c.Provider.VsCurrency = "usd"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}
	if c.Refresh.IntervalSeconds == 0 {
		c.Refresh.IntervalSeconds = 60
	}
	if c.Refresh.MarketsPerPage == 0 {
		c.Refresh.MarketsPerPage = 50
	}
	if c.Refresh.PortfolioPerPage == 0 {
		c.Refresh.PortfolioPerPage = 100
	}
	if c.Refresh.TickerPerPage == 0 {
		c.Refresh.TickerPerPage = 10
	}
	if c.Refresh.DominanceTopN == 0 {
		c.Refresh.DominanceTopN = 4
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Storage configuration
	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}

	// Validate Refresh configuration
	if c.Refresh.IntervalSeconds <= 0 {
		return fmt.Errorf("refresh interval must be greater than 0")
	}
	if c.Refresh.MarketsPerPage <= 0 || c.Refresh.MarketsPerPage > 250 {
		return fmt.Errorf("markets per page must be between 1 and 250")
	}
	if c.Refresh.PortfolioPerPage <= 0 || c.Refresh.PortfolioPerPage > 250 {
		return fmt.Errorf("portfolio per page must be between 1 and 250")
	}
	if c.Refresh.TickerPerPage <= 0 || c.Refresh.TickerPerPage > 250 {
		return fmt.Errorf("ticker per page must be between 1 and 250")
	}
	if c.Refresh.DominanceTopN <= 0 {
		return fmt.Errorf("dominance top n must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
