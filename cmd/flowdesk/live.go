package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/app"
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/ingest"
	"github.com/quantlab/flowdesk/internal/logger"
)

var (
	liveEvents    string
	liveSnapshots string
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the pipeline against a live event feed",
	Long: `Consumes flow events from the feed (a file, named pipe, or "-" for
stdin), evaluates them, and serves Prometheus metrics while running.`,
	RunE: runLive,
}

func init() {
	liveCmd.Flags().StringVar(&liveEvents, "events", "-", "event feed path (\"-\" for stdin)")
	liveCmd.Flags().StringVar(&liveSnapshots, "snapshots", "", "market snapshot file (JSON)")
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.Must(debug || cfg.App.Development, cfg.App.LogLevel)
	defer log.Sync()

	var snapshots ingest.SnapshotProvider
	if liveSnapshots != "" {
		snapshots, err = ingest.LoadSnapshots(liveSnapshots)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.New(ctx, cfg, snapshots, nil, log)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(pipeline.Metrics(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			log.Info("metrics listening",
				zap.String("addr", cfg.Metrics.Addr),
				zap.String("path", cfg.Metrics.Path))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	stream, err := ingest.OpenReplay(liveEvents)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := pipeline.Run(ctx, stream); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
