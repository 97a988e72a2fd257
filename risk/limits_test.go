package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitsCheck(t *testing.T) {
	t.Parallel()

	base := Summary{
		NetDelta:        -120,
		NetGamma:        3.5,
		NetTheta:        -80,
		NetVega:         250,
		ImpliedNotional: 27000,
		AvgDaysToExpiry: 2,
		DTEWeight:       2,
		TotalMaxLoss:    750,
	}

	tests := []struct {
		name   string
		limits Limits
		s      Summary
		want   []string
	}{
		{name: "no limits", limits: Limits{}, s: base},
		{name: "delta breached on the short side", limits: Limits{MaxAbsNetDelta: 100}, s: base, want: []string{LimitNetDelta}},
		{name: "delta inside", limits: Limits{MaxAbsNetDelta: 150}, s: base},
		{name: "gamma", limits: Limits{MaxAbsNetGamma: 1}, s: base, want: []string{LimitNetGamma}},
		{name: "theta burn", limits: Limits{MaxThetaBurn: 50}, s: base, want: []string{LimitThetaBurn}},
		{name: "positive theta never burns", limits: Limits{MaxThetaBurn: 50}, s: Summary{NetTheta: 80}},
		{name: "vega", limits: Limits{MaxAbsNetVega: 200}, s: base, want: []string{LimitNetVega}},
		{name: "notional", limits: Limits{MaxNotional: 20000}, s: base, want: []string{LimitNotional}},
		{name: "max loss", limits: Limits{MaxTotalLoss: 500}, s: base, want: []string{LimitMaxLoss}},
		{name: "avg dte", limits: Limits{MinAvgDTE: 7}, s: base, want: []string{LimitAvgDTE}},
		{name: "avg dte ignored without options", limits: Limits{MinAvgDTE: 7}, s: Summary{}},
		{name: "avg dte ignored without weight", limits: Limits{MinAvgDTE: 7}, s: Summary{ImpliedNotional: 5000}},
		{name: "avg dte uses weight not notional", limits: Limits{MinAvgDTE: 7}, s: Summary{DTEWeight: 1, AvgDaysToExpiry: 3}, want: []string{LimitAvgDTE}},
		{
			name:   "incomplete",
			limits: Limits{RequireComplete: true},
			s:      Summary{Skipped: []Skip{{Code: SkipNoSpot}}},
			want:   []string{LimitIncomplete},
		},
		{
			name:   "several at once",
			limits: Limits{MaxAbsNetDelta: 100, MaxTotalLoss: 500, MaxAbsNetVega: 1000},
			s:      base,
			want:   []string{LimitNetDelta, LimitMaxLoss},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := tt.limits.Check(tt.s)

			var codes []string
			for _, v := range d.Violations {
				codes = append(codes, v.Code)
				assert.NotEmpty(t, v.Msg)
			}
			assert.Equal(t, tt.want, codes)
			assert.Equal(t, len(tt.want) == 0, d.OK)
		})
	}
}

func TestLimitsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Limits{}.Validate())
	assert.NoError(t, Limits{MaxAbsNetDelta: 100, RequireComplete: true}.Validate())
	assert.ErrorContains(t, Limits{MaxTotalLoss: -1}.Validate(), "limits.max_total_loss")
}
