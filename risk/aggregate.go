package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/optrisk/expiry"
	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/occ"
	"github.com/rustyeddy/optrisk/pricing"
	"go.uber.org/zap"
)

// Skip codes for positions left out of the Greek sums.
const (
	SkipNoSpot        = "NO_SPOT"
	SkipInvalidStrike = "INVALID_STRIKE"
	SkipUndecodable   = "UNDECODABLE_SYMBOL"
)

// Skip flags a position whose Greeks are unknown.
type Skip struct {
	PositionID string `json:"position_id"`
	Symbol     string `json:"symbol"`
	Code       string `json:"code"`
	Msg        string `json:"msg"`
}

// Summary is the portfolio risk for one snapshot. It is rebuilt from
// scratch on every pass.
type Summary struct {
	AsOf time.Time `json:"as_of"`

	NetDelta float64 `json:"net_delta"`
	NetGamma float64 `json:"net_gamma"`
	NetTheta float64 `json:"net_theta"`
	NetVega  float64 `json:"net_vega"`

	ImpliedNotional float64 `json:"implied_notional"`
	AvgDaysToExpiry float64 `json:"avg_days_to_expiry"`
	DTEWeight       float64 `json:"dte_weight"` // contracts behind AvgDaysToExpiry
	TotalMaxLoss    float64 `json:"total_max_loss"`

	Options  int `json:"options"`
	Equities int `json:"equities"`

	Positions map[string]GreeksResult    `json:"positions"`
	MaxLoss   map[string]MaxLossEstimate `json:"max_loss"`
	Skipped   []Skip                     `json:"skipped,omitempty"`
}

func (s Summary) Net() market.Greeks {
	return market.Greeks{Delta: s.NetDelta, Gamma: s.NetGamma, Theta: s.NetTheta, Vega: s.NetVega}
}

// Complete is true when every position contributed to the Greek sums.
func (s Summary) Complete() bool {
	return len(s.Skipped) == 0
}

func (s *Summary) add(g market.Greeks) {
	s.NetDelta += g.Delta
	s.NetGamma += g.Gamma
	s.NetTheta += g.Theta
	s.NetVega += g.Vega
}

func (s *Summary) skip(key string, pos market.Position, code, msg string) {
	s.Skipped = append(s.Skipped, Skip{PositionID: key, Symbol: pos.Symbol, Code: code, Msg: msg})
}

// Aggregator computes portfolio risk. It holds no per-call state, so one
// value can serve concurrent callers.
type Aggregator struct {
	Calc  Calculator
	Clock expiry.Clock
	Now   func() time.Time
	Log   *zap.Logger
}

func NewAggregator(p Params, s pricing.Solver, clock expiry.Clock, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	calc := NewCalculator(p, s)
	calc.MinYears = clock.MinYears
	return &Aggregator{
		Calc:  calc,
		Clock: clock,
		Now:   time.Now,
		Log:   log,
	}
}

// NewDefaultAggregator uses DefaultParams, the default solver and the
// 16:00 New York expiry clock.
func NewDefaultAggregator() *Aggregator {
	return NewAggregator(DefaultParams(), pricing.DefaultSolver(), expiry.Default(), nil)
}

// positionKeys names each position by ID, else Symbol. A key already taken
// by an earlier position gets the slice index appended, so lots of the same
// contract without IDs stay separate.
func positionKeys(positions []market.Position) []string {
	keys := make([]string, len(positions))
	seen := make(map[string]bool, len(positions))
	for i, p := range positions {
		key := p.ID
		if key == "" {
			key = p.Symbol
		}
		if seen[key] {
			key = fmt.Sprintf("%s#%d", key, i)
		}
		seen[key] = true
		keys[i] = key
	}
	return keys
}

// Aggregate prices every position at the current time.
func (a *Aggregator) Aggregate(positions []market.Position, quotes market.Quotes, hints MaxLossHints) Summary {
	return a.AggregateAt(a.Now(), positions, quotes, hints)
}

// AggregateAt prices every position as of now. Positions that cannot be
// priced are listed in Skipped and add nothing to the Greek sums.
func (a *Aggregator) AggregateAt(now time.Time, positions []market.Position, quotes market.Quotes, hints MaxLossHints) Summary {
	sum := Summary{
		AsOf:      now,
		Positions: make(map[string]GreeksResult, len(positions)),
		MaxLoss:   make(map[string]MaxLossEstimate),
	}

	var (
		dteWeighted float64
		dteQty      float64
		hinted      = make(map[string]bool)
	)

	keys := positionKeys(positions)
	for i, pos := range positions {
		key := keys[i]

		opt, ok := occ.Decode(pos.Symbol)
		if !ok {
			if pos.AssetClass == market.Option {
				sum.skip(key, pos, SkipUndecodable, fmt.Sprintf("option symbol %q does not decode", pos.Symbol))
				a.Log.Warn("skipping option", zap.String("id", key), zap.String("symbol", pos.Symbol), zap.String("code", SkipUndecodable))
				continue
			}
			g := a.Calc.Equity(pos)
			g.PositionID = key
			sum.Positions[key] = g
			sum.add(g.Position)
			sum.Equities++
			continue
		}

		sum.Options++

		est := ResolveMaxLoss(pos, opt.Underlying, hints, a.Calc.Params.ContractMultiplier)
		if est.Source != SourceNone {
			sum.MaxLoss[key] = est
			switch {
			case est.Source == SourceHeuristic:
				sum.TotalMaxLoss += est.Amount
			case !hinted[opt.Underlying]:
				// one stop-loss hint covers the whole underlying
				hinted[opt.Underlying] = true
				sum.TotalMaxLoss += est.Amount
			}
		}

		if opt.Strike <= 0 {
			sum.skip(key, pos, SkipInvalidStrike, fmt.Sprintf("strike %.3f is not positive", opt.Strike))
			a.Log.Warn("skipping option", zap.String("id", key), zap.String("symbol", pos.Symbol), zap.String("code", SkipInvalidStrike))
			continue
		}

		size := pos.Size()
		dte := a.Clock.Days(opt, now)
		sum.ImpliedNotional += size * opt.Strike * a.Calc.Params.ContractMultiplier
		dteWeighted += dte * size
		dteQty += size

		spot, _ := quotes.Spot(opt.Underlying)
		g, ok := a.Calc.Option(pos, opt, spot, dte/expiry.DaysPerYear)
		if !ok {
			sum.skip(key, pos, SkipNoSpot, fmt.Sprintf("no spot price for %s", opt.Underlying))
			a.Log.Warn("skipping option", zap.String("id", key), zap.String("symbol", pos.Symbol), zap.String("code", SkipNoSpot))
			continue
		}
		if g.VolSource == VolSolved && g.IVStatus != pricing.StatusConverged {
			a.Log.Debug("implied vol did not converge",
				zap.String("id", key),
				zap.String("status", string(g.IVStatus)),
				zap.Float64("vol", g.Volatility))
		}

		g.PositionID = key
		sum.Positions[key] = g
		sum.add(g.Position)
	}

	sum.DTEWeight = dteQty
	if dteQty > 0 {
		sum.AvgDaysToExpiry = dteWeighted / dteQty
	}

	return sum
}
