// Package pricing implements European Black-Scholes pricing, sensitivities
// and implied volatility.
package pricing

import (
	"math"

	"github.com/rustyeddy/optrisk/market"
)

// D1D2 returns the Black-Scholes d1 and d2 terms.
func D1D2(spot, strike, t, r, vol float64) (float64, float64) {
	volSqrtT := vol * math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (r+0.5*vol*vol)*t) / volSqrtT
	return d1, d1 - volSqrtT
}

// Price is the European option value. spot, strike, t and vol must be
// positive; callers clamp.
func Price(spot, strike, t, r, vol float64, typ market.OptionType) float64 {
	d1, d2 := D1D2(spot, strike, t, r, vol)
	disc := strike * math.Exp(-r*t)
	if typ == market.Call {
		return spot*NormCDF(d1) - disc*NormCDF(d2)
	}
	return disc*NormCDF(-d2) - spot*NormCDF(-d1)
}

// RawVega is dPrice/dVol per 1.00 of volatility, identical for calls and puts.
func RawVega(spot, strike, t, r, vol float64) float64 {
	d1, _ := D1D2(spot, strike, t, r, vol)
	return spot * math.Sqrt(t) * NormPDF(d1)
}

// Sensitivities returns per-contract Greeks for a long position: theta per
// calendar day and vega per one volatility point.
func Sensitivities(spot, strike, t, r, vol float64, typ market.OptionType) market.Greeks {
	d1, d2 := D1D2(spot, strike, t, r, vol)
	sqrtT := math.Sqrt(t)
	pdf := NormPDF(d1)
	disc := strike * math.Exp(-r*t)

	g := market.Greeks{
		Gamma: pdf / (spot * vol * sqrtT),
		Vega:  spot * sqrtT * pdf / 100,
	}

	decay := -spot * pdf * vol / (2 * sqrtT)
	if typ == market.Call {
		g.Delta = NormCDF(d1)
		g.Theta = (decay - r*disc*NormCDF(d2)) / 365
	} else {
		g.Delta = NormCDF(d1) - 1
		g.Theta = (decay + r*disc*NormCDF(-d2)) / 365
	}
	return g
}
