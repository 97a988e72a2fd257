// Package stops stores the open risk-managed trades of the trade-management
// collaborator. Each trade carries the stop-loss dollar amount at risk, which
// the risk engine consumes as a max-loss hint keyed by underlying.
package stops

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/optrisk/occ"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Trade is one tracked position with a known stop-loss.
type Trade struct {
	TradeID    string     `json:"trade_id" yaml:"trade_id"`
	Underlying string     `json:"underlying" yaml:"underlying"`
	Symbol     string     `json:"symbol" yaml:"symbol"`
	MaxLoss    float64    `json:"max_loss" yaml:"max_loss"`
	Status     Status     `json:"status" yaml:"status"`
	OpenedAt   time.Time  `json:"opened_at" yaml:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
}

// NewTrade builds an open trade for symbol. The underlying comes from the OCC
// decode when the symbol is an option and is the symbol itself otherwise.
func NewTrade(tradeID, symbol string, maxLoss float64, openedAt time.Time) (Trade, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Trade{}, fmt.Errorf("symbol is required")
	}
	if maxLoss <= 0 {
		return Trade{}, fmt.Errorf("max loss must be positive, got %.2f", maxLoss)
	}
	return Trade{
		TradeID:    tradeID,
		Underlying: occ.Underlying(symbol),
		Symbol:     symbol,
		MaxLoss:    maxLoss,
		Status:     StatusOpen,
		OpenedAt:   openedAt.UTC(),
	}, nil
}
