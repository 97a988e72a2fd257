package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rustyeddy/optrisk/config"
	"github.com/rustyeddy/optrisk/feed"
	"github.com/rustyeddy/optrisk/id"
	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/report"
	"github.com/rustyeddy/optrisk/risk"
	"github.com/rustyeddy/optrisk/stops"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Compute portfolio risk for a snapshot file",
	Long: `Load a snapshot of positions and quotes and print portfolio risk.

Max-loss hints come from the snapshot's max_loss_hints, or from the
stops database when the snapshot has none and one is configured.
Configured limits are checked after the pass; use --strict to exit
non-zero on a breach.

Examples:
  optrisk aggregate -f book.yaml
  optrisk aggregate -f book.yaml --format org --stops-db stops.db
  optrisk aggregate -f book.json --now 2024-12-10T21:00:00Z --format json`,
	RunE: runAggregate,
}

var (
	aggregateFile   string
	aggregateFormat string
	aggregateNow    string
	aggregateStrict bool
)

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&aggregateFile, "file", "f", "", "snapshot file (required)")
	aggregateCmd.Flags().StringVar(&aggregateFormat, "format", "text", "output format: text, json, org, csv")
	aggregateCmd.Flags().StringVar(&aggregateNow, "now", "", "valuation time (RFC3339); defaults to the snapshot's as_of or the current time")
	aggregateCmd.Flags().BoolVar(&aggregateStrict, "strict", false, "fail when a risk limit is breached")
	aggregateCmd.MarkFlagRequired("file")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	snap, err := feed.Load(aggregateFile)
	if err != nil {
		return err
	}

	agg, err := newAggregator(cfg, log)
	if err != nil {
		return err
	}

	now := snap.Time(time.Now())
	if aggregateNow != "" {
		now, err = time.Parse(time.RFC3339, aggregateNow)
		if err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	quotes, err := resolveQuotes(ctx, snap, snap.Tickers())
	if err != nil {
		return err
	}

	hints, err := resolveHints(ctx, cfg, snap)
	if err != nil {
		return err
	}

	sum := agg.AggregateAt(now, snap.Positions, quotes, hints)
	decision := cfg.Limits.Check(sum)
	if err := writeSummary(cmd.OutOrStdout(), aggregateFormat, id.New(), sum, decision); err != nil {
		return err
	}
	if aggregateStrict && !decision.OK {
		return fmt.Errorf("%d risk limit(s) breached", len(decision.Violations))
	}
	return nil
}

// resolveQuotes asks src for spot prices on the given underlyings.
func resolveQuotes(ctx context.Context, src market.QuoteSource, tickers []string) (market.Quotes, error) {
	quotes, err := src.GetQuotes(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}
	return quotes, nil
}

func resolveHints(ctx context.Context, cfg *config.Config, snap *feed.Snapshot) (risk.MaxLossHints, error) {
	if snap.MaxLossHints != nil || cfg.Stops.DBPath == "" {
		return snap.MaxLossHints, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := stops.NewSQLite(cfg.Stops.DBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.MaxLossHints(ctx)
}

func writeSummary(w io.Writer, format, runID string, sum risk.Summary, d risk.Decision) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			RunID   string        `json:"run_id"`
			Summary risk.Summary  `json:"summary"`
			Limits  risk.Decision `json:"limits"`
		}{runID, sum, d})
	case "org":
		_, err := io.WriteString(w, report.FormatSummaryOrg(runID, sum)+report.FormatLimitsOrg(d))
		return err
	case "csv":
		return report.WritePositionsCSV(w, sum)
	case "text":
		writeText(w, sum, d)
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json, org or csv)", format)
}

func writeText(w io.Writer, sum risk.Summary, d risk.Decision) {
	fmt.Fprintf(w, "Portfolio risk as of %s\n", sum.AsOf.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  Net delta:        %12.4f\n", sum.NetDelta)
	fmt.Fprintf(w, "  Net gamma:        %12.4f\n", sum.NetGamma)
	fmt.Fprintf(w, "  Net theta:        %12.4f /day\n", sum.NetTheta)
	fmt.Fprintf(w, "  Net vega:         %12.4f /vol pt\n", sum.NetVega)
	fmt.Fprintf(w, "  Implied notional: %12s\n", report.Money(sum.ImpliedNotional))
	fmt.Fprintf(w, "  Avg DTE:          %12.2f\n", sum.AvgDaysToExpiry)
	fmt.Fprintf(w, "  Max loss:         %12s\n", report.Money(sum.TotalMaxLoss))
	fmt.Fprintf(w, "  Positions:        %d options, %d equities\n", sum.Options, sum.Equities)

	keys := make([]string, 0, len(sum.Positions))
	for k := range sum.Positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %-10s %-24s %10s %10s %10s %10s %8s\n", "ID", "SYMBOL", "DELTA", "GAMMA", "THETA", "VEGA", "VOL")
	}
	for _, k := range keys {
		g := sum.Positions[k]
		vol := "-"
		if g.Volatility > 0 {
			vol = fmt.Sprintf("%.1f%%", g.Volatility*100)
		}
		fmt.Fprintf(w, "  %-10s %-24s %10.4f %10.4f %10.4f %10.4f %8s\n",
			k, g.Symbol, g.Position.Delta, g.Position.Gamma, g.Position.Theta, g.Position.Vega, vol)
	}

	if len(sum.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Skipped:")
		for _, s := range sum.Skipped {
			fmt.Fprintf(w, "    %-20s %-10s %s\n", s.Code, s.PositionID, s.Msg)
		}
	}

	if !d.OK {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Limits breached:")
		for _, v := range d.Violations {
			fmt.Fprintf(w, "    %-20s %s\n", v.Code, v.Msg)
		}
	}
}
