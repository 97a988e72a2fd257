package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/optrisk/occ"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode SYMBOL...",
	Short: "Decode OCC option symbols",
	Long: `Decode one or more OCC option symbols and print days to expiry.

Quote symbols that contain padding spaces.

Example:
  optrisk decode "ARM   241212P00135000" SPY250117C00600000 AAPL`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	clock, err := cfg.Expiry.Clock()
	if err != nil {
		return err
	}

	now := time.Now()
	w := cmd.OutOrStdout()
	for _, sym := range args {
		opt, ok := occ.Decode(sym)
		if !ok {
			fmt.Fprintf(w, "%-24q equity (not an option symbol)\n", sym)
			continue
		}
		fmt.Fprintf(w, "%-24q %s %s %s strike %.3f expires %s (%.2f days)\n",
			sym, opt.Underlying, opt.Expiration.Format("2006-01-02"), opt.Type, opt.Strike,
			clock.Instant(opt).Format(time.RFC3339), clock.Days(opt, now))
	}
	return nil
}
