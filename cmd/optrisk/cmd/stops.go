package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/optrisk/id"
	"github.com/rustyeddy/optrisk/report"
	"github.com/rustyeddy/optrisk/stops"
	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "Manage tracked stop-loss trades",
	Long: `Track open trades with a known stop-loss so their max loss feeds the
risk engine as a hint for the underlying.

Subcommands:
  track  - Start tracking a trade
  close  - Stop tracking a trade
  list   - List open trades
  hints  - Print max-loss hints by underlying

Examples:
  optrisk stops track --stops-db stops.db --symbol "ARM   241212P00135000" --max-loss 750
  optrisk stops list --stops-db stops.db --org`,
}

var stopsTrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Start tracking a trade",
	RunE:  runStopsTrack,
}

var stopsCloseCmd = &cobra.Command{
	Use:   "close TRADE_ID",
	Short: "Stop tracking a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runStopsClose,
}

var stopsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open trades",
	RunE:  runStopsList,
}

var stopsHintsCmd = &cobra.Command{
	Use:   "hints",
	Short: "Print max-loss hints by underlying",
	RunE:  runStopsHints,
}

var (
	stopsSymbol  string
	stopsMaxLoss float64
	stopsTradeID string
	stopsOrg     bool
)

func init() {
	rootCmd.AddCommand(stopsCmd)
	stopsCmd.AddCommand(stopsTrackCmd)
	stopsCmd.AddCommand(stopsCloseCmd)
	stopsCmd.AddCommand(stopsListCmd)
	stopsCmd.AddCommand(stopsHintsCmd)

	stopsTrackCmd.Flags().StringVarP(&stopsSymbol, "symbol", "s", "", "equity or OCC option symbol (required)")
	stopsTrackCmd.Flags().Float64VarP(&stopsMaxLoss, "max-loss", "m", 0, "dollar loss at the stop (required)")
	stopsTrackCmd.Flags().StringVar(&stopsTradeID, "id", "", "trade ID (default: new ULID)")
	stopsTrackCmd.MarkFlagRequired("symbol")
	stopsTrackCmd.MarkFlagRequired("max-loss")

	stopsListCmd.Flags().BoolVar(&stopsOrg, "org", false, "render as Org-mode")
}

func openStops(cmd *cobra.Command) (*stops.SQLite, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Stops.DBPath == "" {
		return nil, fmt.Errorf("no stops database: set --stops-db, stops.db_path or OPTRISK_STOPS_DB_PATH")
	}
	return stops.NewSQLite(cfg.Stops.DBPath)
}

func runStopsTrack(cmd *cobra.Command, args []string) error {
	store, err := openStops(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	tradeID := stopsTradeID
	if tradeID == "" {
		tradeID = id.New()
	}
	t, err := stops.NewTrade(tradeID, stopsSymbol, stopsMaxLoss, time.Now())
	if err != nil {
		return err
	}
	if err := store.Track(cmd.Context(), t); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Tracking %s (%s) max loss %s\n", t.TradeID, t.Underlying, report.Money(t.MaxLoss))
	return nil
}

func runStopsClose(cmd *cobra.Command, args []string) error {
	store, err := openStops(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CloseTrade(cmd.Context(), args[0], time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Closed %s\n", args[0])
	return nil
}

func runStopsList(cmd *cobra.Command, args []string) error {
	store, err := openStops(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	trades, err := store.ListOpen(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if stopsOrg {
		fmt.Fprint(w, report.FormatTradesOrg(trades))
		return nil
	}
	if len(trades) == 0 {
		fmt.Fprintln(w, "No open trades")
		return nil
	}
	for _, t := range trades {
		fmt.Fprintf(w, "%s  %-6s %-24s %12s  %s\n",
			t.TradeID, t.Underlying, t.Symbol, report.Money(t.MaxLoss), t.OpenedAt.Format(time.RFC3339))
	}
	return nil
}

func runStopsHints(cmd *cobra.Command, args []string) error {
	store, err := openStops(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	hints, err := store.MaxLossHints(cmd.Context())
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := cmd.OutOrStdout()
	for _, k := range keys {
		fmt.Fprintf(w, "%-6s %12s\n", k, report.Money(hints[k]))
	}
	return nil
}
