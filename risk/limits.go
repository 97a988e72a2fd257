package risk

import (
	"fmt"
	"math"
)

// Limits are portfolio-level thresholds checked after each pass. A zero
// field disables that check.
type Limits struct {
	MaxAbsNetDelta  float64 `json:"max_abs_net_delta" yaml:"max_abs_net_delta"`
	MaxAbsNetGamma  float64 `json:"max_abs_net_gamma" yaml:"max_abs_net_gamma"`
	MaxThetaBurn    float64 `json:"max_theta_burn" yaml:"max_theta_burn"` // dollars of decay per day, as a positive number
	MaxAbsNetVega   float64 `json:"max_abs_net_vega" yaml:"max_abs_net_vega"`
	MaxNotional     float64 `json:"max_notional" yaml:"max_notional"`
	MaxTotalLoss    float64 `json:"max_total_loss" yaml:"max_total_loss"`
	MinAvgDTE       float64 `json:"min_avg_dte" yaml:"min_avg_dte"`
	RequireComplete bool    `json:"require_complete" yaml:"require_complete"`
}

// Violation codes.
const (
	LimitNetDelta   = "NET_DELTA_LIMIT"
	LimitNetGamma   = "NET_GAMMA_LIMIT"
	LimitThetaBurn  = "THETA_BURN_LIMIT"
	LimitNetVega    = "NET_VEGA_LIMIT"
	LimitNotional   = "NOTIONAL_LIMIT"
	LimitMaxLoss    = "MAX_LOSS_LIMIT"
	LimitAvgDTE     = "AVG_DTE_TOO_LOW"
	LimitIncomplete = "INCOMPLETE_DATA"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type Decision struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations,omitempty"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.OK = false
}

func (l Limits) Validate() error {
	for name, v := range map[string]float64{
		"max_abs_net_delta": l.MaxAbsNetDelta,
		"max_abs_net_gamma": l.MaxAbsNetGamma,
		"max_theta_burn":    l.MaxThetaBurn,
		"max_abs_net_vega":  l.MaxAbsNetVega,
		"max_notional":      l.MaxNotional,
		"max_total_loss":    l.MaxTotalLoss,
		"min_avg_dte":       l.MinAvgDTE,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("limits.%s must not be negative", name)
		}
	}
	return nil
}

// Check evaluates a summary against the limits.
func (l Limits) Check(s Summary) Decision {
	d := Decision{OK: true}

	if l.MaxAbsNetDelta > 0 && math.Abs(s.NetDelta) > l.MaxAbsNetDelta {
		d.add(LimitNetDelta, fmt.Sprintf("net delta %.2f exceeds +/-%.2f", s.NetDelta, l.MaxAbsNetDelta))
	}
	if l.MaxAbsNetGamma > 0 && math.Abs(s.NetGamma) > l.MaxAbsNetGamma {
		d.add(LimitNetGamma, fmt.Sprintf("net gamma %.4f exceeds +/-%.4f", s.NetGamma, l.MaxAbsNetGamma))
	}
	if l.MaxThetaBurn > 0 && -s.NetTheta > l.MaxThetaBurn {
		d.add(LimitThetaBurn, fmt.Sprintf("theta %.2f/day burns more than %.2f", s.NetTheta, l.MaxThetaBurn))
	}
	if l.MaxAbsNetVega > 0 && math.Abs(s.NetVega) > l.MaxAbsNetVega {
		d.add(LimitNetVega, fmt.Sprintf("net vega %.2f exceeds +/-%.2f", s.NetVega, l.MaxAbsNetVega))
	}
	if l.MaxNotional > 0 && s.ImpliedNotional > l.MaxNotional {
		d.add(LimitNotional, fmt.Sprintf("implied notional %.2f exceeds %.2f", s.ImpliedNotional, l.MaxNotional))
	}
	if l.MaxTotalLoss > 0 && s.TotalMaxLoss > l.MaxTotalLoss {
		d.add(LimitMaxLoss, fmt.Sprintf("max loss %.2f exceeds %.2f", s.TotalMaxLoss, l.MaxTotalLoss))
	}
	// only meaningful once there are options to average over
	if l.MinAvgDTE > 0 && s.DTEWeight > 0 && s.AvgDaysToExpiry < l.MinAvgDTE {
		d.add(LimitAvgDTE, fmt.Sprintf("avg days to expiry %.2f below %.2f", s.AvgDaysToExpiry, l.MinAvgDTE))
	}
	if l.RequireComplete && !s.Complete() {
		d.add(LimitIncomplete, fmt.Sprintf("%d positions could not be priced", len(s.Skipped)))
	}

	return d
}
