// Package metrics exposes the latest portfolio risk pass as Prometheus
// gauges and counts solver and data-quality outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rustyeddy/optrisk/risk"
)

const namespace = "optrisk"

// Recorder owns its registry so tests and embedded servers do not collide
// on the global default.
type Recorder struct {
	Registry *prometheus.Registry

	netGreeks       *prometheus.GaugeVec
	impliedNotional prometheus.Gauge
	avgDTE          prometheus.Gauge
	maxLoss         prometheus.Gauge
	positions       *prometheus.GaugeVec
	passes          prometheus.Counter
	passDuration    prometheus.Histogram
	skips           *prometheus.CounterVec
	ivSolves        *prometheus.CounterVec
	volSources      *prometheus.CounterVec
	violations      *prometheus.CounterVec
	limitsOK        prometheus.Gauge
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		Registry: reg,
		netGreeks: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "net_greek",
			Help:      "Net portfolio Greek from the latest pass",
		}, []string{"greek"}),
		impliedNotional: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "implied_notional",
			Help:      "Sum of |qty| x strike x multiplier over decoded options",
		}),
		avgDTE: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "avg_days_to_expiry",
			Help:      "Quantity-weighted average days to expiry",
		}),
		maxLoss: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "max_loss",
			Help:      "Total max-loss estimate",
		}),
		positions: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "positions",
			Help:      "Positions in the latest pass by asset class",
		}, []string{"asset_class"}),
		passes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "passes_total",
			Help:      "Aggregation passes observed",
		}),
		passDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "duration_seconds",
			Help:      "Time spent in one aggregation pass",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		skips: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "skipped_total",
			Help:      "Positions left out of the Greek sums",
		}, []string{"code"}),
		ivSolves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "iv",
			Name:      "solves_total",
			Help:      "Implied volatility solves by outcome",
		}, []string{"status"}),
		volSources: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "iv",
			Name:      "vol_source_total",
			Help:      "Option Greeks by volatility source",
		}, []string{"source"}),
		violations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "limits",
			Name:      "violations_total",
			Help:      "Risk limit violations by code",
		}, []string{"code"}),
		limitsOK: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "limits",
			Name:      "ok",
			Help:      "1 when the latest pass was inside every limit",
		}),
	}
}

// Observe records one aggregation pass.
func (r *Recorder) Observe(s risk.Summary, took time.Duration) {
	r.netGreeks.WithLabelValues("delta").Set(s.NetDelta)
	r.netGreeks.WithLabelValues("gamma").Set(s.NetGamma)
	r.netGreeks.WithLabelValues("theta").Set(s.NetTheta)
	r.netGreeks.WithLabelValues("vega").Set(s.NetVega)
	r.impliedNotional.Set(s.ImpliedNotional)
	r.avgDTE.Set(s.AvgDaysToExpiry)
	r.maxLoss.Set(s.TotalMaxLoss)
	r.positions.WithLabelValues("option").Set(float64(s.Options))
	r.positions.WithLabelValues("equity").Set(float64(s.Equities))

	r.passes.Inc()
	r.passDuration.Observe(took.Seconds())

	for _, sk := range s.Skipped {
		r.skips.WithLabelValues(sk.Code).Inc()
	}
	for _, g := range s.Positions {
		if g.VolSource == risk.VolNone {
			continue
		}
		r.volSources.WithLabelValues(string(g.VolSource)).Inc()
		if g.VolSource == risk.VolSolved {
			r.ivSolves.WithLabelValues(string(g.IVStatus)).Inc()
		}
	}
}

// ObserveLimits records the limit check of the latest pass.
func (r *Recorder) ObserveLimits(d risk.Decision) {
	if d.OK {
		r.limitsOK.Set(1)
	} else {
		r.limitsOK.Set(0)
	}
	for _, v := range d.Violations {
		r.violations.WithLabelValues(v.Code).Inc()
	}
}

// Handler serves the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
