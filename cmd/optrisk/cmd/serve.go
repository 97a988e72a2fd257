package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/optrisk/metrics"
	"github.com/rustyeddy/optrisk/server"
	"github.com/rustyeddy/optrisk/stops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve portfolio risk over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  POST /v1/risk             price a snapshot (positions, quotes, max_loss_hints)
  GET  /v1/decode/{symbol}  decode an OCC option symbol
  GET  /healthz             liveness
  GET  /metrics             Prometheus metrics

Example:
  optrisk serve --addr :8080 --stops-db stops.db`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	agg, err := newAggregator(cfg, log)
	if err != nil {
		return err
	}

	var hints server.HintSource
	if cfg.Stops.DBPath != "" {
		store, err := stops.NewSQLite(cfg.Stops.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		hints = store
		log.Info("max loss hints from stops db", zap.String("path", cfg.Stops.DBPath))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(agg, hints, metrics.New(), log)
	srv.Limits = cfg.Limits
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
