package occ

import (
	"testing"
	"time"

	"github.com/rustyeddy/optrisk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ARMPut(t *testing.T) {
	t.Parallel()

	o, ok := Decode("ARM   241212P00135000")
	require.True(t, ok)

	assert.Equal(t, "ARM", o.Underlying)
	assert.Equal(t, time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC), o.Expiration)
	assert.Equal(t, market.Put, o.Type)
	assert.Equal(t, 135.0, o.Strike)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
		ok     bool
		under  string
		typ    market.OptionType
		strike float64
	}{
		{"no padding call", "GS250117C00280000", true, "GS", market.Call, 280},
		{"fractional strike", "SPY   250321C00512500", true, "SPY", market.Call, 512.5},
		{"sub-dollar strike", "F     250620P00000500", true, "F", market.Put, 0.5},
		{"zero strike decodes", "XYZ   250620P00000000", true, "XYZ", market.Put, 0},
		{"plain equity", "ARM", false, "", "", 0},
		{"empty", "", false, "", "", 0},
		{"lowercase", "arm   241212P00135000", false, "", "", 0},
		{"bad type", "ARM   241212X00135000", false, "", "", 0},
		{"short strike", "ARM   241212P0013500", false, "", "", 0},
		{"bad month", "ARM   241312P00135000", false, "", "", 0},
		{"bad day", "ARM   240231P00135000", false, "", "", 0},
		{"trailing junk", "ARM   241212P00135000 ", false, "", "", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o, ok := Decode(tt.symbol)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, Option{}, o)
				return
			}
			assert.Equal(t, tt.under, o.Underlying)
			assert.Equal(t, tt.typ, o.Type)
			assert.InDelta(t, tt.strike, o.Strike, 1e-9)
		})
	}
}

func TestUnderlying(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ARM", Underlying("ARM   241212P00135000"))
	assert.Equal(t, "AAPL", Underlying("AAPL"))
	assert.True(t, IsOption("ARM   241212P00135000"))
	assert.False(t, IsOption("AAPL"))
}
