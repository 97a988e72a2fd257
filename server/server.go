// Package server is the HTTP surface of the risk engine. Every request is
// priced from its own snapshot; the server holds no portfolio state.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rustyeddy/optrisk/expiry"
	"github.com/rustyeddy/optrisk/feed"
	"github.com/rustyeddy/optrisk/id"
	"github.com/rustyeddy/optrisk/market"
	"github.com/rustyeddy/optrisk/metrics"
	"github.com/rustyeddy/optrisk/occ"
	"github.com/rustyeddy/optrisk/risk"
	"go.uber.org/zap"
)

// HintSource supplies max-loss hints when a request carries none.
// *stops.SQLite satisfies it.
type HintSource interface {
	MaxLossHints(ctx context.Context) (risk.MaxLossHints, error)
}

type Server struct {
	Agg    *risk.Aggregator
	Limits risk.Limits
	Hints  HintSource
	// Quotes overrides the spot prices carried in each request. When nil
	// the request snapshot is its own quote source.
	Quotes  market.QuoteSource
	Metrics *metrics.Recorder
	Log     *zap.Logger
}

// New wires a server. hints and rec may be nil.
func New(agg *risk.Aggregator, hints HintSource, rec *metrics.Recorder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.New()
	}
	return &Server{Agg: agg, Hints: hints, Metrics: rec, Log: log}
}

// RiskResponse is the body of POST /v1/risk.
type RiskResponse struct {
	RunID   string        `json:"run_id"`
	Summary risk.Summary  `json:"summary"`
	Limits  risk.Decision `json:"limits"`
}

// DecodeResponse is the body of GET /v1/decode/{symbol}.
type DecodeResponse struct {
	Symbol       string  `json:"symbol"`
	IsOption     bool    `json:"is_option"`
	Underlying   string  `json:"underlying"`
	Expiration   string  `json:"expiration,omitempty"`
	Type         string  `json:"type,omitempty"`
	Strike       float64 `json:"strike,omitempty"`
	ExpiresAt    string  `json:"expires_at,omitempty"`
	DaysToExpiry float64 `json:"days_to_expiry"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/risk", s.handleRisk).Methods(http.MethodPost)
	r.HandleFunc("/v1/decode/{symbol}", s.handleDecode).Methods(http.MethodGet)
	r.Handle("/metrics", s.Metrics.Handler()).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Log.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) quoteSource(snap *feed.Snapshot) market.QuoteSource {
	if s.Quotes != nil {
		return s.Quotes
	}
	return snap
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var snap feed.Snapshot
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20))
	if err := dec.Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode snapshot: %v", err)})
		return
	}
	snap.Normalize()

	hints := snap.MaxLossHints
	if hints == nil && s.Hints != nil {
		h, err := s.Hints.MaxLossHints(r.Context())
		if err != nil {
			s.Log.Error("load max loss hints", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "max loss hints unavailable"})
			return
		}
		hints = h
	}

	quotes, err := s.quoteSource(&snap).GetQuotes(r.Context(), snap.Tickers())
	if err != nil {
		s.Log.Error("get quotes", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "quotes unavailable"})
		return
	}

	runID := id.New()
	start := time.Now()
	sum := s.Agg.AggregateAt(snap.Time(s.Agg.Now()), snap.Positions, quotes, hints)
	s.Metrics.Observe(sum, time.Since(start))
	decision := s.Limits.Check(sum)
	s.Metrics.ObserveLimits(decision)

	s.Log.Info("risk pass",
		zap.String("run_id", runID),
		zap.Int("options", sum.Options),
		zap.Int("equities", sum.Equities),
		zap.Int("skipped", len(sum.Skipped)),
		zap.Float64("net_delta", sum.NetDelta),
		zap.Bool("within_limits", decision.OK))

	writeJSON(w, http.StatusOK, RiskResponse{RunID: runID, Summary: sum, Limits: decision})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	resp := DecodeResponse{
		Symbol:       symbol,
		Underlying:   occ.Underlying(symbol),
		DaysToExpiry: expiry.NotAnOption,
	}

	if opt, ok := occ.Decode(symbol); ok {
		now := s.Agg.Now()
		resp.IsOption = true
		resp.Expiration = opt.Expiration.Format("2006-01-02")
		resp.Type = string(opt.Type)
		resp.Strike = opt.Strike
		resp.ExpiresAt = s.Agg.Clock.Instant(opt).Format(time.RFC3339)
		resp.DaysToExpiry = s.Agg.Clock.Days(opt, now)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
