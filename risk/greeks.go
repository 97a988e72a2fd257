package risk

import (
	"math"

	"github.com/rustyeddy/optrisk/expiry"
	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/occ"
	"github.com/rustyeddy/optrisk/pricing"
)

// VolSource records where the volatility behind a result came from.
type VolSource string

const (
	VolSolved  VolSource = "solved"
	VolDefault VolSource = "default" // no usable mark price; Params.DefaultVolatility
	VolBroker  VolSource = "broker"  // broker Greeks used as-is
	VolNone    VolSource = ""        // equities
)

// GreeksResult is one position's risk. PerContract and Position are both
// sign-adjusted for short positions; Position is PerContract x |quantity|.
type GreeksResult struct {
	PositionID   string            `json:"position_id"`
	Symbol       string            `json:"symbol"`
	Underlying   string            `json:"underlying"`
	AssetClass   market.AssetClass `json:"asset_class"`
	PerContract  market.Greeks     `json:"per_contract"`
	Position     market.Greeks     `json:"position"`
	Spot         float64           `json:"spot,omitempty"`
	Volatility   float64           `json:"volatility,omitempty"`
	VolSource    VolSource         `json:"vol_source,omitempty"`
	IVStatus     pricing.IVStatus  `json:"iv_status,omitempty"`
	IVIterations int               `json:"iv_iterations,omitempty"`
	DaysToExpiry float64           `json:"days_to_expiry,omitempty"`
}

// Calculator turns positions into Greeks.
type Calculator struct {
	Params Params
	Solver pricing.Solver
	// MinYears floors time-to-expiry; zero means expiry.MinYears.
	MinYears float64
}

func NewCalculator(p Params, s pricing.Solver) Calculator {
	return Calculator{Params: p, Solver: s, MinYears: expiry.MinYears}
}

func (c Calculator) minYears() float64 {
	if c.MinYears > 0 {
		return c.MinYears
	}
	return expiry.MinYears
}

// Equity is the stock path: delta is +/-|qty|, everything else is zero.
func (c Calculator) Equity(pos market.Position) GreeksResult {
	per := market.Greeks{Delta: pos.Direction()}
	return GreeksResult{
		PositionID:  pos.ID,
		Symbol:      pos.Symbol,
		Underlying:  pos.Symbol,
		AssetClass:  market.Equity,
		PerContract: per,
		Position:    per.Scale(pos.Size()),
	}
}

func validPrice(x float64) bool {
	return x > 0 && !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Option computes Black-Scholes Greeks for an option position. It reports
// false when spot or strike is unusable, in which case the position's risk
// is unknown rather than zero.
func (c Calculator) Option(pos market.Position, opt occ.Option, spot, years float64) (GreeksResult, bool) {
	res := GreeksResult{
		PositionID: pos.ID,
		Symbol:     pos.Symbol,
		Underlying: opt.Underlying,
		AssetClass: market.Option,
	}

	if !validPrice(spot) || !validPrice(opt.Strike) {
		return c.brokerFallback(pos, res)
	}
	if floor := c.minYears(); years < floor {
		years = floor
	}

	res.Spot = spot
	res.DaysToExpiry = years * expiry.DaysPerYear

	if validPrice(pos.MarkPrice) {
		iv := c.Solver.Solve(pos.MarkPrice, spot, opt.Strike, years, c.Params.RiskFreeRate, opt.Type)
		res.Volatility = iv.Volatility
		res.VolSource = VolSolved
		res.IVStatus = iv.Status
		res.IVIterations = iv.Iterations
	} else {
		res.Volatility = c.Params.DefaultVolatility
		res.VolSource = VolDefault
	}

	per := pricing.Sensitivities(spot, opt.Strike, years, c.Params.RiskFreeRate, res.Volatility, opt.Type)
	c.fill(&res, pos, per)
	return res, true
}

func (c Calculator) brokerFallback(pos market.Position, res GreeksResult) (GreeksResult, bool) {
	g := market.BrokerGreeksOrNil(pos.BrokerGreeks)
	if !c.Params.UseBrokerGreeks || g == nil {
		return GreeksResult{}, false
	}
	res.VolSource = VolBroker
	c.fill(&res, pos, *g)
	return res, true
}

// fill applies the short flip and position scaling to long per-contract Greeks.
func (c Calculator) fill(res *GreeksResult, pos market.Position, long market.Greeks) {
	per := long
	if pos.IsShort() {
		per = long.Neg()
	}
	res.PerContract = per
	res.Position = per.Scale(pos.Size())
}
