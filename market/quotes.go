package market

import (
	"context"
	"math"
)

// QuoteSource is implemented by market-data collaborators that can resolve
// a spot price for an underlying ticker.
type QuoteSource interface {
	GetQuotes(ctx context.Context, tickers []string) (Quotes, error)
}

// Quotes maps an underlying ticker to its spot price.
type Quotes map[string]float64

// Spot returns the price for ticker. Zero, negative, NaN and missing prices
// are all reported as unavailable.
func (q Quotes) Spot(ticker string) (float64, bool) {
	p, ok := q[ticker]
	if !ok || math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, false
	}
	return p, true
}
