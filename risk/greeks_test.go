package risk

import (
	"math"
	"testing"

	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/occ"
	"github.com/rustyeddy/optrisk/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalc() Calculator {
	return NewCalculator(DefaultParams(), pricing.DefaultSolver())
}

func armPut(t *testing.T) occ.Option {
	t.Helper()
	o, ok := occ.Decode("ARM   241212P00135000")
	require.True(t, ok)
	return o
}

func TestEquityGreeks(t *testing.T) {
	t.Parallel()

	c := testCalc()

	long := c.Equity(market.Position{ID: "L", Symbol: "AAPL", Side: market.Long, Quantity: 10})
	assert.Equal(t, market.Greeks{Delta: 10}, long.Position)
	assert.Equal(t, market.Greeks{Delta: 1}, long.PerContract)
	assert.Equal(t, "AAPL", long.Underlying)
	assert.Equal(t, VolNone, long.VolSource)

	short := c.Equity(market.Position{ID: "S", Symbol: "AAPL", Side: market.Short, Quantity: 5})
	assert.Equal(t, market.Greeks{Delta: -5}, short.Position)
}

func TestOptionGreeks_ShortIsNegatedLong(t *testing.T) {
	t.Parallel()

	c := testCalc()
	opt := armPut(t)
	years := 10.0 / 365

	for _, mark := range []float64{0, 1.5, 4.0} {
		long := market.Position{ID: "P", Symbol: "ARM   241212P00135000", AssetClass: market.Option, Side: market.Long, Quantity: 3, MarkPrice: mark}
		short := long
		short.Side = market.Short

		gl, ok := c.Option(long, opt, 140, years)
		require.True(t, ok)
		gs, ok := c.Option(short, opt, 140, years)
		require.True(t, ok)

		assert.Equal(t, gl.PerContract.Neg(), gs.PerContract)
		assert.Equal(t, gl.Position.Neg(), gs.Position)
		assert.Equal(t, gl.Volatility, gs.Volatility)
	}
}

func TestOptionGreeks_PositionScaling(t *testing.T) {
	t.Parallel()

	c := testCalc()
	pos := market.Position{ID: "P", Symbol: "ARM   241212P00135000", Side: market.Long, Quantity: -2, MarkPrice: 3.2}

	g, ok := c.Option(pos, armPut(t), 135, 2.0/365)
	require.True(t, ok)

	assert.InDelta(t, 2*g.PerContract.Delta, g.Position.Delta, 1e-12)
	assert.InDelta(t, 2*g.PerContract.Gamma, g.Position.Gamma, 1e-12)
	assert.InDelta(t, 2*g.PerContract.Theta, g.Position.Theta, 1e-12)
	assert.InDelta(t, 2*g.PerContract.Vega, g.Position.Vega, 1e-12)

	assert.GreaterOrEqual(t, g.PerContract.Delta, -1.0)
	assert.LessOrEqual(t, g.PerContract.Delta, 0.0)
	assert.Greater(t, g.PerContract.Gamma, 0.0)
	assert.Greater(t, g.PerContract.Vega, 0.0)
	assert.Equal(t, VolSolved, g.VolSource)
	assert.Equal(t, pricing.StatusConverged, g.IVStatus)
	assert.InDelta(t, 2.0, g.DaysToExpiry, 1e-9)
}

func TestOptionGreeks_DefaultVolWithoutMark(t *testing.T) {
	t.Parallel()

	c := testCalc()
	pos := market.Position{ID: "P", Symbol: "ARM   241212P00135000", Side: market.Long, Quantity: 1}

	g, ok := c.Option(pos, armPut(t), 135, 0.1)
	require.True(t, ok)

	assert.Equal(t, VolDefault, g.VolSource)
	assert.Equal(t, 0.5, g.Volatility)
	assert.Empty(t, g.IVStatus)

	want := pricing.Sensitivities(135, 135, 0.1, 0.045, 0.5, market.Put)
	assert.Equal(t, want, g.PerContract)
}

func TestOptionGreeks_UnusableInputs(t *testing.T) {
	t.Parallel()

	c := testCalc()
	pos := market.Position{ID: "P", Symbol: "ARM   241212P00135000", Side: market.Long, Quantity: 1, MarkPrice: 3}

	_, ok := c.Option(pos, armPut(t), 0, 0.1)
	assert.False(t, ok, "zero spot")

	_, ok = c.Option(pos, armPut(t), -5, 0.1)
	assert.False(t, ok, "negative spot")

	zeroStrike := armPut(t)
	zeroStrike.Strike = 0
	_, ok = c.Option(pos, zeroStrike, 135, 0.1)
	assert.False(t, ok, "zero strike")
}

func TestOptionGreeks_NonPositiveYearsFloored(t *testing.T) {
	t.Parallel()

	c := testCalc()
	pos := market.Position{ID: "P", Symbol: "ARM   241212P00135000", Side: market.Long, Quantity: 1}

	g, ok := c.Option(pos, armPut(t), 135, 0)
	require.True(t, ok)
	assert.Greater(t, g.DaysToExpiry, 0.0)
	assert.False(t, math.IsNaN(g.PerContract.Gamma))
}

func TestOptionGreeks_ConfiguredFloor(t *testing.T) {
	t.Parallel()

	c := testCalc()
	c.MinYears = 0.01
	pos := market.Position{ID: "P", Symbol: "ARM   241212P00135000", Side: market.Long, Quantity: 1}

	for _, years := range []float64{0, 0.001, 0.005} {
		g, ok := c.Option(pos, armPut(t), 135, years)
		require.True(t, ok)
		assert.InDelta(t, 0.01*365, g.DaysToExpiry, 1e-9, "years=%v", years)
	}

	g, ok := c.Option(pos, armPut(t), 135, 0.02)
	require.True(t, ok)
	assert.InDelta(t, 0.02*365, g.DaysToExpiry, 1e-9)
}

func TestOptionGreeks_BrokerFallback(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.UseBrokerGreeks = true
	c := NewCalculator(p, pricing.DefaultSolver())

	broker := &market.Greeks{Delta: -0.4, Gamma: 0.05, Theta: -0.3, Vega: 0.04}
	pos := market.Position{ID: "P", Symbol: "ARM   241212P00135000", Side: market.Short, Quantity: 2, BrokerGreeks: broker}

	g, ok := c.Option(pos, armPut(t), 0, 0.1)
	require.True(t, ok)
	assert.Equal(t, VolBroker, g.VolSource)
	assert.Equal(t, broker.Neg(), g.PerContract)
	assert.Equal(t, broker.Neg().Scale(2), g.Position)

	pos.BrokerGreeks = &market.Greeks{}
	_, ok = c.Option(pos, armPut(t), 0, 0.1)
	assert.False(t, ok, "all-zero broker greeks are unknown, not flat")

	_, ok = testCalc().Option(market.Position{BrokerGreeks: broker}, armPut(t), 0, 0.1)
	assert.False(t, ok, "fallback disabled by default")
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.DefaultVolatility = 0
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.ContractMultiplier = -100
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.RiskFreeRate = 3
	assert.Error(t, p.Validate())
}

