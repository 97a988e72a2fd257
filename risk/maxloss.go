package risk

import (
	"math"

	"github.com/rustyeddy/optrisk/market"
)

// MaxLossHints maps an underlying ticker to the max loss currently tracked
// for resting stop-loss orders on that ticker.
type MaxLossHints map[string]float64

type MaxLossSource string

const (
	SourceHint      MaxLossSource = "hint"
	SourceHeuristic MaxLossSource = "heuristic"
	SourceNone      MaxLossSource = "none"
)

type MaxLossEstimate struct {
	Underlying string        `json:"underlying"`
	Amount     float64       `json:"amount"`
	Source     MaxLossSource `json:"source"`
}

// HeuristicMaxLoss is a placeholder, not a risk-model result: with no
// explicit stop, a short option is assumed stopped out at twice the premium
// collected.
func HeuristicMaxLoss(entryPrice, quantity, multiplier float64) float64 {
	return entryPrice * 2 * multiplier * math.Abs(quantity)
}

// ResolveMaxLoss is the two-tier lookup: an explicit hint for the
// underlying wins; otherwise short positions with a positive entry price
// fall back to HeuristicMaxLoss.
func ResolveMaxLoss(pos market.Position, underlying string, hints MaxLossHints, multiplier float64) MaxLossEstimate {
	if amt, ok := hints[underlying]; ok {
		return MaxLossEstimate{Underlying: underlying, Amount: amt, Source: SourceHint}
	}
	if pos.IsShort() && pos.EntryPrice > 0 {
		return MaxLossEstimate{
			Underlying: underlying,
			Amount:     HeuristicMaxLoss(pos.EntryPrice, pos.Quantity, multiplier),
			Source:     SourceHeuristic,
		}
	}
	return MaxLossEstimate{Underlying: underlying, Source: SourceNone}
}
