// Package feed loads portfolio snapshots: broker positions, spot quotes and
// optional max-loss hints, as a single YAML or JSON document.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/occ"
	"github.com/rustyeddy/optrisk/risk"
	"gopkg.in/yaml.v3"
)

// Snapshot is one point-in-time view of the book.
type Snapshot struct {
	AsOf         *time.Time        `json:"as_of,omitempty" yaml:"as_of,omitempty"`
	Positions    []market.Position `json:"positions" yaml:"positions"`
	Quotes       market.Quotes     `json:"quotes" yaml:"quotes"`
	MaxLossHints risk.MaxLossHints `json:"max_loss_hints,omitempty" yaml:"max_loss_hints,omitempty"`
}

// Load reads a snapshot file (YAML, falling back to JSON).
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Parse decodes a snapshot document and normalises it.
func Parse(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		snap = Snapshot{}
		if jerr := json.Unmarshal(data, &snap); jerr != nil {
			return nil, fmt.Errorf("parse snapshot (tried YAML and JSON): %w", jerr)
		}
	}
	snap.Normalize()
	return &snap, nil
}

// Normalize fills in what brokers commonly leave out. Symbols are trimmed,
// asset class and side get defaults, quantities become magnitudes, and
// all-zero broker Greeks become nil. A negative quantity only implies short
// when no side was given; an explicit side always wins.
func (s *Snapshot) Normalize() {
	if s.Quotes == nil {
		s.Quotes = market.Quotes{}
	}
	for i := range s.Positions {
		p := &s.Positions[i]
		p.Symbol = strings.TrimSpace(p.Symbol)
		if p.AssetClass == "" {
			if occ.IsOption(p.Symbol) {
				p.AssetClass = market.Option
			} else {
				p.AssetClass = market.Equity
			}
		}
		if p.Quantity < 0 {
			p.Quantity = -p.Quantity
			if p.Side == "" {
				p.Side = market.Short
			}
		}
		if p.Side == "" {
			p.Side = market.Long
		}
		p.BrokerGreeks = market.BrokerGreeksOrNil(p.BrokerGreeks)
	}
}

// Tickers returns the sorted, distinct underlyings the positions need spot
// prices for.
func (s *Snapshot) Tickers() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range s.Positions {
		u := occ.Underlying(p.Symbol)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// GetQuotes makes a Snapshot a market.QuoteSource. Tickers absent from the
// snapshot are simply left out of the result.
func (s *Snapshot) GetQuotes(ctx context.Context, tickers []string) (market.Quotes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(market.Quotes, len(tickers))
	for _, t := range tickers {
		if p, ok := s.Quotes[t]; ok {
			out[t] = p
		}
	}
	return out, nil
}

// Time returns the snapshot's as-of time, or fallback when unset.
func (s *Snapshot) Time(fallback time.Time) time.Time {
	if s.AsOf == nil {
		return fallback
	}
	return *s.AsOf
}

var _ market.QuoteSource = (*Snapshot)(nil)
