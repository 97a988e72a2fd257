package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotesSpot(t *testing.T) {
	t.Parallel()

	q := Quotes{"AAPL": 180, "ZERO": 0, "NEG": -1, "NAN": math.NaN()}

	tests := []struct {
		ticker string
		want   float64
		ok     bool
	}{
		{"AAPL", 180, true},
		{"ZERO", 0, false},
		{"NEG", 0, false},
		{"NAN", 0, false},
		{"MISSING", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.ticker, func(t *testing.T) {
			t.Parallel()
			got, ok := q.Spot(tt.ticker)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionDirection(t *testing.T) {
	t.Parallel()

	long := Position{Side: Long, Quantity: -3}
	short := Position{Side: Short, Quantity: 3}

	assert.Equal(t, 3.0, long.Size())
	assert.Equal(t, 1.0, long.Direction())
	assert.Equal(t, -1.0, short.Direction())
	assert.True(t, short.IsShort())
}

func TestGreeksArithmetic(t *testing.T) {
	t.Parallel()

	g := Greeks{Delta: 0.5, Gamma: 0.1, Theta: -0.02, Vega: 0.3}

	assert.Equal(t, Greeks{Delta: -0.5, Gamma: -0.1, Theta: 0.02, Vega: -0.3}, g.Neg())
	assert.InDelta(t, 1.0, g.Scale(2).Delta, 1e-12)
	assert.InDelta(t, 0.0, g.Add(g.Neg()).Vega, 1e-12)
}

func TestBrokerGreeksOrNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, BrokerGreeksOrNil(nil))
	assert.Nil(t, BrokerGreeksOrNil(&Greeks{}))

	g := &Greeks{Delta: -0.4}
	assert.Same(t, g, BrokerGreeksOrNil(g))
}
