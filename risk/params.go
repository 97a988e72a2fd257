package risk

import "fmt"

// Params holds the fallback constants the engine would otherwise hard-code.
type Params struct {
	RiskFreeRate       float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	DefaultVolatility  float64 `json:"default_volatility" yaml:"default_volatility"`
	ContractMultiplier float64 `json:"contract_multiplier" yaml:"contract_multiplier"`

	// Use broker-quoted Greeks for options whose underlying has no spot.
	UseBrokerGreeks bool `json:"use_broker_greeks" yaml:"use_broker_greeks"`
}

func DefaultParams() Params {
	return Params{
		RiskFreeRate:       0.045,
		DefaultVolatility:  0.50,
		ContractMultiplier: 100,
	}
}

func (p Params) Validate() error {
	if p.RiskFreeRate < -0.1 || p.RiskFreeRate > 1 {
		return fmt.Errorf("risk.risk_free_rate %.4f out of range", p.RiskFreeRate)
	}
	if p.DefaultVolatility <= 0 {
		return fmt.Errorf("risk.default_volatility must be positive")
	}
	if p.ContractMultiplier <= 0 {
		return fmt.Errorf("risk.contract_multiplier must be positive")
	}
	return nil
}
