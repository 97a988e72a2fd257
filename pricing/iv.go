package pricing

import (
	"math"

	"github.com/rustyeddy/optrisk/market"
)

// IVStatus says how a solve ended.
type IVStatus string

const (
	StatusConverged     IVStatus = "converged"
	StatusMaxIterations IVStatus = "max_iterations"
	StatusFlatVega      IVStatus = "flat_vega"
)

type IVResult struct {
	Volatility float64
	Iterations int
	Status     IVStatus
}

func (r IVResult) Converged() bool {
	return r.Status == StatusConverged
}

// Solver recovers volatility from a market price by Newton-Raphson.
type Solver struct {
	InitialVol    float64 `json:"initial_volatility" yaml:"initial_volatility"`
	Tolerance     float64 `json:"tolerance" yaml:"tolerance"`
	MinVol        float64 `json:"min_volatility" yaml:"min_volatility"`
	MaxVol        float64 `json:"max_volatility" yaml:"max_volatility"`
	MinVega       float64 `json:"min_vega" yaml:"min_vega"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
}

func DefaultSolver() Solver {
	return Solver{
		InitialVol:    0.50,
		Tolerance:     0.0001,
		MinVol:        0.01,
		MaxVol:        5.00,
		MinVega:       1e-8,
		MaxIterations: 100,
	}
}

func (s Solver) clamp(v float64) float64 {
	return math.Min(math.Max(v, s.MinVol), s.MaxVol)
}

// Solve never fails; when it cannot converge it returns its last estimate
// and says why in Status.
//
// Price is increasing in volatility, so every evaluation narrows a bracket
// [lo, hi] around the root. A Newton step that lands outside the bracket is
// replaced by its midpoint.
func (s Solver) Solve(marketPrice, spot, strike, t, r float64, typ market.OptionType) IVResult {
	lo, hi := s.MinVol, s.MaxVol
	vol := s.clamp(s.InitialVol)

	for i := 0; i < s.MaxIterations; i++ {
		diff := Price(spot, strike, t, r, vol, typ) - marketPrice
		if math.Abs(diff) < s.Tolerance {
			return IVResult{Volatility: vol, Iterations: i, Status: StatusConverged}
		}
		if diff > 0 {
			hi = vol
		} else {
			lo = vol
		}

		vega := RawVega(spot, strike, t, r, vol)
		if vega < s.MinVega || math.IsNaN(vega) {
			return IVResult{Volatility: vol, Iterations: i, Status: StatusFlatVega}
		}

		next := vol - diff/vega
		if next < lo || next > hi {
			next = 0.5 * (lo + hi)
		}
		vol = s.clamp(next)
	}

	return IVResult{Volatility: vol, Iterations: s.MaxIterations, Status: StatusMaxIterations}
}

// SolveIV runs the default solver and returns only the volatility.
func SolveIV(marketPrice, spot, strike, t, r float64, typ market.OptionType) float64 {
	return DefaultSolver().Solve(marketPrice, spot, strike, t, r, typ).Volatility
}
