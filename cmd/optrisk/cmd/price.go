package cmd

import (
	"fmt"

	"github.com/rustyeddy/optrisk/expiry"
	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/pricing"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a European option with Black-Scholes",
	Long: `Price one option contract and print its long, per-contract Greeks.

Example:
  optrisk price --spot 100 --strike 100 --days 365 --vol 0.2 --type call`,
	RunE: runPrice,
}

var ivCmd = &cobra.Command{
	Use:   "iv",
	Short: "Solve implied volatility from an option price",
	Long: `Recover implied volatility from a market price with Newton-Raphson.

Example:
  optrisk iv --price 3.20 --spot 135 --strike 135 --days 2 --type put`,
	RunE: runIV,
}

var (
	optSpot   float64
	optStrike float64
	optDays   float64
	optRate   float64
	optVol    float64
	optType   string
	optPrice  float64
)

func init() {
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(ivCmd)

	for _, c := range []*cobra.Command{priceCmd, ivCmd} {
		c.Flags().Float64Var(&optSpot, "spot", 0, "underlying spot price")
		c.Flags().Float64Var(&optStrike, "strike", 0, "strike price")
		c.Flags().Float64Var(&optDays, "days", 0, "days to expiry")
		c.Flags().Float64Var(&optRate, "rate", -1, "risk-free rate (default from config)")
		c.Flags().StringVar(&optType, "type", "call", "option type: call or put")
	}
	priceCmd.Flags().Float64Var(&optVol, "vol", 0, "volatility, e.g. 0.25 (default from config)")
	ivCmd.Flags().Float64Var(&optPrice, "price", 0, "option market price (required)")
	ivCmd.MarkFlagRequired("price")
}

type optionInputs struct {
	spot, strike, years, rate float64
	typ                       market.OptionType
	solver                    pricing.Solver
}

func readOptionInputs(cmd *cobra.Command) (optionInputs, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return optionInputs{}, err
	}
	if optSpot <= 0 || optStrike <= 0 {
		return optionInputs{}, fmt.Errorf("--spot and --strike must be positive")
	}
	if optDays <= 0 {
		return optionInputs{}, fmt.Errorf("--days must be positive")
	}
	typ := market.OptionType(optType)
	if typ != market.Call && typ != market.Put {
		return optionInputs{}, fmt.Errorf("--type must be call or put")
	}
	rate := cfg.Risk.RiskFreeRate
	if cmd.Flags().Changed("rate") {
		rate = optRate
	}
	if !cmd.Flags().Changed("vol") {
		optVol = cfg.Risk.DefaultVolatility
	}
	return optionInputs{
		spot:   optSpot,
		strike: optStrike,
		years:  optDays / expiry.DaysPerYear,
		rate:   rate,
		typ:    typ,
		solver: cfg.Solver,
	}, nil
}

func runPrice(cmd *cobra.Command, args []string) error {
	in, err := readOptionInputs(cmd)
	if err != nil {
		return err
	}
	if optVol <= 0 {
		return fmt.Errorf("--vol must be positive")
	}

	p := pricing.Price(in.spot, in.strike, in.years, in.rate, optVol, in.typ)
	g := pricing.Sensitivities(in.spot, in.strike, in.years, in.rate, optVol, in.typ)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %.2f/%.2f  T=%.4fy  r=%.4f  vol=%.4f\n", in.typ, in.spot, in.strike, in.years, in.rate, optVol)
	fmt.Fprintf(w, "  Price: %.4f\n", p)
	fmt.Fprintf(w, "  Delta: %.4f\n", g.Delta)
	fmt.Fprintf(w, "  Gamma: %.6f\n", g.Gamma)
	fmt.Fprintf(w, "  Theta: %.4f /day\n", g.Theta)
	fmt.Fprintf(w, "  Vega:  %.4f /vol pt\n", g.Vega)
	return nil
}

func runIV(cmd *cobra.Command, args []string) error {
	in, err := readOptionInputs(cmd)
	if err != nil {
		return err
	}
	if optPrice <= 0 {
		return fmt.Errorf("--price must be positive")
	}

	res := in.solver.Solve(optPrice, in.spot, in.strike, in.years, in.rate, in.typ)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Implied vol: %.4f (%.2f%%)\n", res.Volatility, res.Volatility*100)
	fmt.Fprintf(w, "  Status:     %s\n", res.Status)
	fmt.Fprintf(w, "  Iterations: %d\n", res.Iterations)
	return nil
}
