package cmd

import (
	"fmt"

	"github.com/rustyeddy/optrisk/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage optrisk configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  optrisk config init -o optrisk.yaml
  optrisk config validate -f optrisk.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  optrisk config init -o optrisk.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  optrisk config validate -f optrisk.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "optrisk.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(w, "\nEdit the file and run with:")
	fmt.Fprintf(w, "  optrisk aggregate --config %s -f book.yaml\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(w, "  Risk: r=%.4f default vol=%.2f multiplier=%.0f broker greeks=%t\n",
		cfg.Risk.RiskFreeRate, cfg.Risk.DefaultVolatility, cfg.Risk.ContractMultiplier, cfg.Risk.UseBrokerGreeks)
	fmt.Fprintf(w, "  Solver: start %.2f tol %g band [%.2f, %.2f] max %d iterations\n",
		cfg.Solver.InitialVol, cfg.Solver.Tolerance, cfg.Solver.MinVol, cfg.Solver.MaxVol, cfg.Solver.MaxIterations)
	fmt.Fprintf(w, "  Expiry: %02d:00 %s\n", cfg.Expiry.ExpiryHour, cfg.Expiry.Timezone)
	if cfg.Stops.DBPath != "" {
		fmt.Fprintf(w, "  Stops: %s\n", cfg.Stops.DBPath)
	}
	return nil
}
