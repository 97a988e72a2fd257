package market

import "math"

type AssetClass string

const (
	Equity AssetClass = "equity"
	Option AssetClass = "option"
)

type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Greeks holds delta, gamma, theta (per calendar day) and vega (per vol point).
type Greeks struct {
	Delta float64 `json:"delta" yaml:"delta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
	Theta float64 `json:"theta" yaml:"theta"`
	Vega  float64 `json:"vega" yaml:"vega"`
}

func (g Greeks) Neg() Greeks {
	return Greeks{Delta: -g.Delta, Gamma: -g.Gamma, Theta: -g.Theta, Vega: -g.Vega}
}

func (g Greeks) Scale(k float64) Greeks {
	return Greeks{Delta: g.Delta * k, Gamma: g.Gamma * k, Theta: g.Theta * k, Vega: g.Vega * k}
}

func (g Greeks) Add(o Greeks) Greeks {
	return Greeks{Delta: g.Delta + o.Delta, Gamma: g.Gamma + o.Gamma, Theta: g.Theta + o.Theta, Vega: g.Vega + o.Vega}
}

func (g Greeks) IsZero() bool {
	return g == Greeks{}
}

// Position is a broker position record. Quantity is a magnitude; direction
// lives in Side. BrokerGreeks is nil when the broker did not supply them.
type Position struct {
	ID           string     `json:"id" yaml:"id"`
	Symbol       string     `json:"symbol" yaml:"symbol"`
	AssetClass   AssetClass `json:"asset_class" yaml:"asset_class"`
	Side         Side       `json:"side" yaml:"side"`
	Quantity     float64    `json:"quantity" yaml:"quantity"`
	EntryPrice   float64    `json:"entry_price" yaml:"entry_price"`
	MarkPrice    float64    `json:"mark_price" yaml:"mark_price"`
	BrokerGreeks *Greeks    `json:"broker_greeks,omitempty" yaml:"broker_greeks,omitempty"`
}

// Size returns |Quantity|.
func (p Position) Size() float64 {
	return math.Abs(p.Quantity)
}

func (p Position) IsShort() bool {
	return p.Side == Short
}

// Direction is +1 for long and -1 for short.
func (p Position) Direction() float64 {
	if p.IsShort() {
		return -1
	}
	return 1
}

// BrokerGreeksOrNil treats an all-zero broker payload as "not supplied".
func BrokerGreeksOrNil(g *Greeks) *Greeks {
	if g == nil || g.IsZero() {
		return nil
	}
	return g
}
