package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/optrisk/config"
	"github.com/rustyeddy/optrisk/logging"
	"github.com/rustyeddy/optrisk/risk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "OPTRISK"

// newViper returns a viper bound to OPTRISK_* variables and to the root
// command's persistent flags.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		flags := cmd.Root().PersistentFlags()
		if err := v.BindPFlag("logging.level", flags.Lookup("log-level")); err != nil {
			return nil, err
		}
		if err := v.BindPFlag("stops.db_path", flags.Lookup("stops-db")); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// overlay copies every key set in v onto cfg.
func overlay(cfg *config.Config, v *viper.Viper) {
	floats := map[string]*float64{
		"risk.risk_free_rate":       &cfg.Risk.RiskFreeRate,
		"risk.default_volatility":   &cfg.Risk.DefaultVolatility,
		"risk.contract_multiplier":  &cfg.Risk.ContractMultiplier,
		"solver.initial_volatility": &cfg.Solver.InitialVol,
		"solver.tolerance":          &cfg.Solver.Tolerance,
		"solver.min_volatility":     &cfg.Solver.MinVol,
		"solver.max_volatility":     &cfg.Solver.MaxVol,
		"solver.min_vega":           &cfg.Solver.MinVega,
		"expiry.min_years":          &cfg.Expiry.MinYears,
		"limits.max_abs_net_delta":  &cfg.Limits.MaxAbsNetDelta,
		"limits.max_abs_net_gamma":  &cfg.Limits.MaxAbsNetGamma,
		"limits.max_theta_burn":     &cfg.Limits.MaxThetaBurn,
		"limits.max_abs_net_vega":   &cfg.Limits.MaxAbsNetVega,
		"limits.max_notional":       &cfg.Limits.MaxNotional,
		"limits.max_total_loss":     &cfg.Limits.MaxTotalLoss,
		"limits.min_avg_dte":        &cfg.Limits.MinAvgDTE,
	}
	for key, dst := range floats {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}

	ints := map[string]*int{
		"solver.max_iterations": &cfg.Solver.MaxIterations,
		"expiry.expiry_hour":    &cfg.Expiry.ExpiryHour,
	}
	for key, dst := range ints {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	strs := map[string]*string{
		"expiry.timezone": &cfg.Expiry.Timezone,
		"stops.db_path":   &cfg.Stops.DBPath,
		"server.addr":     &cfg.Server.Addr,
		"logging.level":   &cfg.Logging.Level,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	bools := map[string]*bool{
		"risk.use_broker_greeks":  &cfg.Risk.UseBrokerGreeks,
		"logging.production":      &cfg.Logging.Production,
		"limits.require_complete": &cfg.Limits.RequireComplete,
	}
	for key, dst := range bools {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
}

// loadConfig resolves the effective configuration: file or defaults, then
// environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v, err := newViper(cmd)
	if err != nil {
		return nil, fmt.Errorf("bind settings: %w", err)
	}
	overlay(cfg, v)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Production)
}

func newAggregator(cfg *config.Config, log *zap.Logger) (*risk.Aggregator, error) {
	clock, err := cfg.Expiry.Clock()
	if err != nil {
		return nil, err
	}
	return risk.NewAggregator(cfg.Risk, cfg.Solver, clock, log), nil
}
