package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

const (
	StockModeSubset = "subset"
	StockModeFull   = "full"
)

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
	Seed     Seed     `json:"seed" mapstructure:"seed"`
	Server   Server   `json:"server" mapstructure:"server"`
	Log      Log      `json:"log" mapstructure:"log"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Seed struct {
	DataDir        string `json:"data_dir" mapstructure:"data_dir"`
	StoreStockMode string `json:"store_stock_mode" mapstructure:"store_stock_mode"`
	MaxOrders      int    `json:"max_orders" mapstructure:"max_orders"`
	RandomSeed     int64  `json:"random_seed" mapstructure:"random_seed"`
	BatchSize      int    `json:"batch_size" mapstructure:"batch_size"`
}

type Server struct {
	Port     int `json:"port" mapstructure:"port"`
	PageSize int `json:"page_size" mapstructure:"page_size"`
}

type Log struct {
	Level       string `json:"level" mapstructure:"level"`
	Environment string `json:"environment" mapstructure:"environment"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "mysql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Seed.DataDir == "" {
		cfg.Seed.DataDir = "data"
	}
	if cfg.Seed.StoreStockMode == "" {
		cfg.Seed.StoreStockMode = StockModeSubset
	}
	if cfg.Seed.MaxOrders == 0 {
		cfg.Seed.MaxOrders = 5
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if cfg.Server.PageSize == 0 {
		cfg.Server.PageSize = 15
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Environment == "" {
		cfg.Log.Environment = "development"
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.Seed.StoreStockMode != StockModeSubset && c.Seed.StoreStockMode != StockModeFull {
		return fmt.Errorf("unsupported store_stock_mode: %s (expected %s or %s)", c.Seed.StoreStockMode, StockModeSubset, StockModeFull)
	}
	if c.Seed.MaxOrders < 1 {
		return fmt.Errorf("max_orders must be positive, got %d", c.Seed.MaxOrders)
	}
	if c.Seed.BatchSize < 0 {
		return fmt.Errorf("batch_size cannot be negative, got %d", c.Seed.BatchSize)
	}
	if c.Server.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.Server.PageSize)
	}

	return nil
}
