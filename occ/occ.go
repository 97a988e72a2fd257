// Package occ decodes OCC-style option symbols such as "ARM   241212P00135000".
package occ

import (
	"regexp"
	"strconv"
	"time"

	"github.com/rustyeddy/optrisk/market"
	"github.com/shopspring/decimal"
)

// underlying, padding, YY MM DD, P|C, strike x1000
var symbolRE = regexp.MustCompile(`^([A-Z]+)\s*(\d{2})(\d{2})(\d{2})([PC])(\d{8})$`)

// Option is a decoded option symbol. Expiration carries only the calendar
// date (midnight UTC); the intraday expiry instant belongs to the expiry clock.
type Option struct {
	Underlying string
	Expiration time.Time
	Type       market.OptionType
	Strike     float64
}

// Decode parses symbol. It returns false when the symbol is not an option,
// which is how equities are classified; there is no partial decode.
func Decode(symbol string) (Option, bool) {
	m := symbolRE.FindStringSubmatch(symbol)
	if m == nil {
		return Option{}, false
	}

	yy, _ := strconv.Atoi(m[2])
	mm, _ := strconv.Atoi(m[3])
	dd, _ := strconv.Atoi(m[4])

	exp := time.Date(2000+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 2024-13-40 into a later date; reject it instead.
	if exp.Year() != 2000+yy || int(exp.Month()) != mm || exp.Day() != dd {
		return Option{}, false
	}

	raw, err := strconv.ParseInt(m[6], 10, 64)
	if err != nil {
		return Option{}, false
	}
	strike, _ := decimal.New(raw, -3).Float64()

	typ := market.Put
	if m[5] == "C" {
		typ = market.Call
	}

	return Option{
		Underlying: m[1],
		Expiration: exp,
		Type:       typ,
		Strike:     strike,
	}, true
}

// IsOption reports whether symbol decodes as an option.
func IsOption(symbol string) bool {
	_, ok := Decode(symbol)
	return ok
}

// Underlying returns the ticker whose spot prices symbol: the decoded
// underlying for options, the symbol itself otherwise.
func Underlying(symbol string) string {
	if o, ok := Decode(symbol); ok {
		return o.Underlying
	}
	return symbol
}
