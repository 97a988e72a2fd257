package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	stopsDB  string
)

var rootCmd = &cobra.Command{
	Use:   "optrisk",
	Short: "Options portfolio risk engine",
	Long: `Optrisk computes real-time risk for mixed equity and option portfolios.

It provides tools for:
  - Per-position Greeks with implied volatility solved from marks
  - Net portfolio Greeks, implied notional and average days to expiry
  - Max-loss estimates from tracked stop-loss trades
  - Decoding OCC option symbols
  - Serving risk over HTTP with Prometheus metrics

Settings come from --config, then OPTRISK_* environment variables
(OPTRISK_RISK_RISK_FREE_RATE, OPTRISK_STOPS_DB_PATH, ...), then flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&stopsDB, "stops-db", "", "SQLite database of tracked stop-loss trades")
}
