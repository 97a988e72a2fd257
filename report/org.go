// Package report renders risk summaries and tracked trades as Org-mode text
// for pasting into a trading journal.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/optrisk/risk"
	"github.com/rustyeddy/optrisk/stops"
	"github.com/shopspring/decimal"
)

// Money formats a currency amount with two decimals, rounding half away
// from zero.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatSummaryOrg renders a Summary as an Org heading with the portfolio
// totals in a PROPERTIES drawer, a per-position table and any skipped
// positions.
func FormatSummaryOrg(runID string, s risk.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "** Risk: %s (%s)\n", s.AsOf.UTC().Format(time.RFC3339), shortID(runID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", runID)
	fmt.Fprintf(&b, ":AS_OF: %s\n", s.AsOf.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":NET_DELTA: %.4f\n", s.NetDelta)
	fmt.Fprintf(&b, ":NET_GAMMA: %.4f\n", s.NetGamma)
	fmt.Fprintf(&b, ":NET_THETA: %.4f\n", s.NetTheta)
	fmt.Fprintf(&b, ":NET_VEGA: %.4f\n", s.NetVega)
	fmt.Fprintf(&b, ":IMPLIED_NOTIONAL: %s\n", Money(s.ImpliedNotional))
	fmt.Fprintf(&b, ":AVG_DTE: %.2f\n", s.AvgDaysToExpiry)
	fmt.Fprintf(&b, ":MAX_LOSS: %s\n", Money(s.TotalMaxLoss))
	fmt.Fprintf(&b, ":OPTIONS: %d\n", s.Options)
	fmt.Fprintf(&b, ":EQUITIES: %d\n", s.Equities)
	fmt.Fprintf(&b, ":COMPLETE: %t\n", s.Complete())
	b.WriteString(":END:\n")

	if len(s.Positions) > 0 {
		b.WriteString("\n*** Positions\n")
		b.WriteString("| id | symbol | delta | gamma | theta | vega | vol | source | dte |\n")
		b.WriteString("|----+--------+-------+-------+-------+------+-----+--------+-----|\n")
		for _, key := range sortedKeys(s.Positions) {
			g := s.Positions[key]
			fmt.Fprintf(&b, "| %s | %s | %.4f | %.4f | %.4f | %.4f | %s | %s | %s |\n",
				key, strings.Join(strings.Fields(g.Symbol), " "),
				g.Position.Delta, g.Position.Gamma, g.Position.Theta, g.Position.Vega,
				volCell(g), sourceCell(g), dteCell(g))
		}
	}

	if len(s.MaxLoss) > 0 {
		b.WriteString("\n*** Max loss\n")
		for _, key := range sortedKeys(s.MaxLoss) {
			est := s.MaxLoss[key]
			fmt.Fprintf(&b, "- %s :: %s %s (%s)\n", key, est.Underlying, Money(est.Amount), est.Source)
		}
	}

	if len(s.Skipped) > 0 {
		b.WriteString("\n*** Skipped\n")
		for _, sk := range s.Skipped {
			fmt.Fprintf(&b, "- %s %s :: %s\n", sk.Code, sk.PositionID, sk.Msg)
		}
	}

	return b.String()
}

// FormatTradeOrg renders a tracked stop-loss trade.
func FormatTradeOrg(t stops.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Stop: %s (%s)\n", t.Underlying, shortID(t.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":UNDERLYING: %s\n", t.Underlying)
	fmt.Fprintf(&b, ":MAX_LOSS: %s\n", Money(t.MaxLoss))
	fmt.Fprintf(&b, ":STATUS: %s\n", t.Status)
	fmt.Fprintf(&b, ":OPENED_AT: %s\n", t.OpenedAt.UTC().Format(time.RFC3339))
	if t.ClosedAt != nil {
		fmt.Fprintf(&b, ":CLOSED_AT: %s\n", t.ClosedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString(":END:\n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []stops.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func volCell(g risk.GreeksResult) string {
	if g.Volatility == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", g.Volatility*100)
}

func sourceCell(g risk.GreeksResult) string {
	switch {
	case g.VolSource == risk.VolNone:
		return "-"
	case g.IVStatus != "":
		return fmt.Sprintf("%s/%s", g.VolSource, g.IVStatus)
	}
	return string(g.VolSource)
}

func dteCell(g risk.GreeksResult) string {
	if g.DaysToExpiry == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", g.DaysToExpiry)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

// FormatLimitsOrg renders a limit check as an Org subsection.
func FormatLimitsOrg(d risk.Decision) string {
	var b strings.Builder
	if d.OK {
		b.WriteString("\n*** Limits: OK\n")
		return b.String()
	}
	b.WriteString("\n*** Limits: BREACHED\n")
	for _, v := range d.Violations {
		fmt.Fprintf(&b, "- %s :: %s\n", v.Code, v.Msg)
	}
	return b.String()
}
