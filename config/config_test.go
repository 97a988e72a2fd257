package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 0.045, cfg.Risk.RiskFreeRate)
	assert.Equal(t, 0.5, cfg.Risk.DefaultVolatility)
	assert.Equal(t, 100.0, cfg.Risk.ContractMultiplier)
	assert.Equal(t, 100, cfg.Solver.MaxIterations)
	assert.Equal(t, "America/New_York", cfg.Expiry.Timezone)
	assert.Equal(t, 16, cfg.Expiry.ExpiryHour)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "zero default volatility",
			mutate:  func(c *Config) { c.Risk.DefaultVolatility = 0 },
			wantErr: true,
			errMsg:  "risk.default_volatility must be positive",
		},
		{
			name:    "zero multiplier",
			mutate:  func(c *Config) { c.Risk.ContractMultiplier = 0 },
			wantErr: true,
			errMsg:  "risk.contract_multiplier must be positive",
		},
		{
			name:    "inverted band",
			mutate:  func(c *Config) { c.Solver.MinVol, c.Solver.MaxVol = 2, 1 },
			wantErr: true,
			errMsg:  "volatility band",
		},
		{
			name:    "initial guess outside band",
			mutate:  func(c *Config) { c.Solver.InitialVol = 9 },
			wantErr: true,
			errMsg:  "solver.initial_volatility",
		},
		{
			name:    "zero tolerance",
			mutate:  func(c *Config) { c.Solver.Tolerance = 0 },
			wantErr: true,
			errMsg:  "solver.tolerance must be positive",
		},
		{
			name:    "no iterations",
			mutate:  func(c *Config) { c.Solver.MaxIterations = 0 },
			wantErr: true,
			errMsg:  "solver.max_iterations must be positive",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Expiry.Timezone = "Mars/Olympus" },
			wantErr: true,
			errMsg:  "expiry",
		},
		{
			name:    "negative limit",
			mutate:  func(c *Config) { c.Limits.MaxAbsNetDelta = -5 },
			wantErr: true,
			errMsg:  "limits.max_abs_net_delta",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
			errMsg:  "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Risk.RiskFreeRate = 0.0525
			cfg.Stops.DBPath = "/tmp/stops.sqlite"
			cfg.Limits.MaxTotalLoss = 5000
			cfg.Limits.RequireComplete = true
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Risk, loaded.Risk)
			assert.Equal(t, cfg.Limits, loaded.Limits)
			assert.Equal(t, cfg.Solver, loaded.Solver)
			assert.Equal(t, cfg.Expiry, loaded.Expiry)
			assert.Equal(t, cfg.Stops.DBPath, loaded.Stops.DBPath)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("risk:\n  risk_free_rate: 0.03\n  default_volatility: 0.4\n  contract_multiplier: 100\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.03, cfg.Risk.RiskFreeRate)
	assert.Equal(t, 0.4, cfg.Risk.DefaultVolatility)
	assert.Equal(t, 100, cfg.Solver.MaxIterations)
	assert.Equal(t, "America/New_York", cfg.Expiry.Timezone)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("risk: [unterminated"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestExpiryClock(t *testing.T) {
	c, err := Default().Expiry.Clock()
	require.NoError(t, err)
	assert.Equal(t, 16, c.Hour)
	assert.Equal(t, "America/New_York", c.Location.String())
}
