// Package app wires the pipeline together: events in, context attached,
// strategies evaluated, signals scored, stored, logged, routed, and tracked
// as paper positions.
package app

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/alert"
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/csvlog"
	"github.com/quantlab/flowdesk/internal/emitter"
	"github.com/quantlab/flowdesk/internal/heartbeat"
	"github.com/quantlab/flowdesk/internal/ingest"
	"github.com/quantlab/flowdesk/internal/llm/factory"
	"github.com/quantlab/flowdesk/internal/marketctx"
	"github.com/quantlab/flowdesk/internal/metrics"
	"github.com/quantlab/flowdesk/internal/notifier"
	"github.com/quantlab/flowdesk/internal/paper"
	"github.com/quantlab/flowdesk/internal/router"
	"github.com/quantlab/flowdesk/internal/storage/archive"
	"github.com/quantlab/flowdesk/internal/storage/signal"
	"github.com/quantlab/flowdesk/internal/strategy"
	"github.com/quantlab/flowdesk/internal/universe"
)

// App is the assembled pipeline.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	metrics  *metrics.Registry
	tracker  *heartbeat.Tracker
	universe *universe.Universe
	attacher *marketctx.Attacher
	emitter  *emitter.Emitter
	store    signal.Store
	activity *csvlog.Logger
	archive  archive.Storage
	paper    *paper.Engine
	router   *router.Router

	snapshots ingest.SnapshotProvider
}

// New assembles the pipeline from configuration. The snapshot provider is
// the only injected dependency; everything else is built here.
func New(ctx context.Context, cfg *config.Config, snapshots ingest.SnapshotProvider, uniProvider universe.Provider, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if snapshots == nil {
		snapshots = ingest.StaticSnapshots{}
	}

	registry, err := notifier.BuildRegistry(cfg.Notifiers)
	if err != nil {
		return nil, err
	}
	provider, err := factory.New(cfg.LLM)
	if err != nil {
		return nil, err
	}
	activity, err := csvlog.New(cfg.Storage.LogDir)
	if err != nil {
		return nil, err
	}
	cold, err := archive.New(cfg.Storage.Archive)
	if err != nil {
		return nil, err
	}

	m := metrics.NewRegistry()

	return &App{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		tracker:   heartbeat.NewTracker(),
		universe:  universe.Resolve(ctx, cfg.Universe, uniProvider, log),
		attacher:  marketctx.New(cfg.Regime),
		emitter:   emitter.New(cfg, strategy.NewMemory(), log),
		store:     signal.NewMemoryStore(cfg.Storage.SignalHistory),
		activity:  activity,
		archive:   cold,
		paper:     paper.NewEngine(log),
		router:    router.New(cfg.Routing, registry, alert.NewFormatter(provider, log), m, log),
		snapshots: snapshots,
	}, nil
}

// Metrics exposes the registry for the HTTP endpoint.
func (a *App) Metrics() *metrics.Registry { return a.metrics }

// Store exposes the signal store.
func (a *App) Store() signal.Store { return a.store }

// Paper exposes the paper trading engine.
func (a *App) Paper() *paper.Engine { return a.paper }

// ProcessEvent runs one flow event through the whole pipeline and returns
// the signals it produced. Invalid events and tickers outside the universe
// produce no signals; downstream failures (store, log, route) are logged
// and never block the remaining signals.
func (a *App) ProcessEvent(ctx context.Context, event core.FlowEvent) ([]core.Signal, error) {
	started := time.Now()

	if err := event.Validate(); err != nil {
		a.tracker.CountRejected()
		a.metrics.RecordEventRejected("EVENT_INVALID")
		a.log.Debug("event rejected", zap.String("ticker", event.Ticker), zap.Error(err))
		return nil, err
	}
	if !a.universe.Contains(event.Ticker) {
		a.log.Debug("ticker outside universe", zap.String("ticker", event.Ticker))
		return nil, nil
	}

	snap, err := a.snapshots.Snapshot(ctx, event.Ticker)
	if err != nil {
		a.log.Warn("snapshot unavailable, degrading context",
			zap.String("ticker", event.Ticker), zap.Error(err))
		snap = marketctx.Snapshot{Ticker: event.Ticker}
	}
	mctx := a.attacher.Attach(event, snap)

	signals := a.emitter.Run(event, mctx)
	for _, sig := range signals {
		a.handleSignal(ctx, sig)
	}

	a.settlePositions(map[string]float64{event.Ticker: event.UnderlyingPrice}, event.EventTime)

	a.tracker.CountEvent()
	a.metrics.RecordEvent(time.Since(started).Seconds())
	return signals, nil
}

func (a *App) handleSignal(ctx context.Context, sig core.Signal) {
	a.tracker.CountSignal(sig.Kind)
	a.metrics.RecordSignal(string(sig.Kind))

	if err := a.store.Save(ctx, sig); err != nil {
		a.log.Error("signal store failed", zap.String("signal", sig.ID), zap.Error(err))
	}
	if err := a.activity.AppendSignal(sig); err != nil {
		a.log.Error("signal log failed", zap.String("signal", sig.ID), zap.Error(err))
	}

	th := a.cfg.ThresholdsFor(sig.Kind, sig.Ticker)
	a.paper.Open(sig, th)
	a.metrics.RecordPositionOpened(string(sig.Kind))
	a.metrics.SetOpenPositions(a.paper.OpenCount())

	if err := a.router.Route(ctx, sig); err != nil {
		a.log.Error("signal routing failed", zap.String("signal", sig.ID), zap.Error(err))
	}
}

// UpdatePrices feeds underlying prices into the paper engine, for callers
// with a price feed separate from the event stream.
func (a *App) UpdatePrices(prices map[string]float64, now time.Time) {
	a.settlePositions(prices, now)
}

func (a *App) settlePositions(prices map[string]float64, now time.Time) {
	closed := a.paper.UpdatePrices(prices, now)
	for _, pos := range closed {
		a.metrics.RecordPositionClosed(string(pos.Kind), string(pos.Status))
		if err := a.activity.AppendTrade(pos); err != nil {
			a.log.Error("trade log failed", zap.String("position", pos.ID), zap.Error(err))
		}
	}
	if len(closed) > 0 {
		a.metrics.SetOpenPositions(a.paper.OpenCount())
	}
}

// RotateLogs pushes the activity files for the given day into the archive.
func (a *App) RotateLogs(ctx context.Context, day time.Time) error {
	return a.activity.Rotate(ctx, a.archive, day)
}

// Run consumes the stream until it ends or the context is cancelled. The
// heartbeat interval also drives timeout sweeps for paper positions and a
// daily log rotation.
func (a *App) Run(ctx context.Context, stream ingest.Stream) error {
	interval := a.cfg.App.HeartbeatInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.log.Info("pipeline started",
		zap.Int("universe", a.universe.Size()),
		zap.Duration("heartbeat", interval),
		zap.String("experiment", a.cfg.App.ExperimentID))

	lastDay := time.Now().UTC().Truncate(24 * time.Hour)
	for {
		select {
		case <-ctx.Done():
			a.log.Info("pipeline stopping", zap.String("status", a.tracker.Snapshot()))
			return ctx.Err()
		case <-ticker.C:
			a.tracker.Beat(a.log)
			if err := a.router.Broadcast(ctx, router.ChannelMain, "💓 "+a.tracker.Snapshot()); err != nil {
				a.log.Warn("heartbeat broadcast failed", zap.Error(err))
			}
			now := time.Now()
			a.settlePositions(nil, now)
			if day := now.UTC().Truncate(24 * time.Hour); day.After(lastDay) {
				if err := a.RotateLogs(ctx, lastDay); err != nil {
					a.log.Error("log rotation failed", zap.Error(err))
				}
				lastDay = day
			}
		default:
			event, err := stream.Next(ctx)
			if errors.Is(err, io.EOF) {
				a.log.Info("stream ended", zap.String("status", a.tracker.Snapshot()))
				return nil
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.log.Warn("stream read failed", zap.Error(err))
				continue
			}
			if _, err := a.ProcessEvent(ctx, event); err != nil {
				continue
			}
		}
	}
}
