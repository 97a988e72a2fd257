package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/optrisk/expiry"
	"github.com/rustyeddy/optrisk/pricing"
	"github.com/rustyeddy/optrisk/risk"
	"gopkg.in/yaml.v3"
)

// Config is the complete optrisk configuration.
type Config struct {
	Risk    risk.Params    `json:"risk" yaml:"risk"`
	Limits  risk.Limits    `json:"limits" yaml:"limits"`
	Solver  pricing.Solver `json:"solver" yaml:"solver"`
	Expiry  ExpiryConfig   `json:"expiry" yaml:"expiry"`
	Stops   StopsConfig    `json:"stops" yaml:"stops"`
	Server  ServerConfig   `json:"server" yaml:"server"`
	Logging LoggingConfig  `json:"logging" yaml:"logging"`
}

// ExpiryConfig anchors option expirations in exchange time.
type ExpiryConfig struct {
	Timezone   string  `json:"timezone" yaml:"timezone"`
	ExpiryHour int     `json:"expiry_hour" yaml:"expiry_hour"`
	MinYears   float64 `json:"min_years" yaml:"min_years"`
}

// Clock builds the expiry clock described by the config.
func (e ExpiryConfig) Clock() (expiry.Clock, error) {
	return expiry.New(e.Timezone, e.ExpiryHour, e.MinYears)
}

// StopsConfig points at the SQLite store of tracked stop-loss trades.
// An empty DBPath disables hint lookup.
type StopsConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`
	Production bool   `json:"production" yaml:"production"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}

	s := c.Solver
	if s.MinVol <= 0 || s.MaxVol <= s.MinVol {
		return fmt.Errorf("solver volatility band [%.4f, %.4f] is invalid", s.MinVol, s.MaxVol)
	}
	if s.InitialVol < s.MinVol || s.InitialVol > s.MaxVol {
		return fmt.Errorf("solver.initial_volatility must lie inside the volatility band")
	}
	if s.Tolerance <= 0 {
		return fmt.Errorf("solver.tolerance must be positive")
	}
	if s.MinVega <= 0 {
		return fmt.Errorf("solver.min_vega must be positive")
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive")
	}

	if _, err := c.Expiry.Clock(); err != nil {
		return fmt.Errorf("expiry: %w", err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Risk:   risk.DefaultParams(),
		Solver: pricing.DefaultSolver(),
		Expiry: ExpiryConfig{
			Timezone:   expiry.DefaultTimezone,
			ExpiryHour: expiry.DefaultHour,
			MinYears:   expiry.MinYears,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
