package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rustyeddy/optrisk/risk"
)

var positionHeader = []string{
	"position_id", "symbol", "underlying", "asset_class",
	"delta", "gamma", "theta", "vega",
	"spot", "volatility", "vol_source", "iv_status", "iv_iterations", "days_to_expiry",
}

// WritePositionsCSV writes one row per priced position, sorted by key,
// followed by one row per skipped position with only its ID, symbol and
// skip code filled in.
func WritePositionsCSV(w io.Writer, s risk.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(positionHeader); err != nil {
		return err
	}

	for _, key := range sortedKeys(s.Positions) {
		g := s.Positions[key]
		err := cw.Write([]string{
			key,
			g.Symbol,
			g.Underlying,
			string(g.AssetClass),
			f(g.Position.Delta),
			f(g.Position.Gamma),
			f(g.Position.Theta),
			f(g.Position.Vega),
			f(g.Spot),
			f(g.Volatility),
			string(g.VolSource),
			string(g.IVStatus),
			strconv.Itoa(g.IVIterations),
			f(g.DaysToExpiry),
		})
		if err != nil {
			return err
		}
	}

	for _, sk := range s.Skipped {
		row := make([]string, len(positionHeader))
		row[0], row[1], row[11] = sk.PositionID, sk.Symbol, sk.Code
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
