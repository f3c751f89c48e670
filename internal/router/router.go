// Package router delivers rendered alerts to the notifier each strategy
// kind's channel maps to. Scalps go to the scalps channel, swings to swings,
// everything else to main. Channel-to-notifier wiring lives in config; an
// unmapped channel logs the alert instead of dropping it silently.
package router

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/alert"
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/metrics"
	"github.com/quantlab/flowdesk/internal/notifier"
)

const (
	ChannelScalps = "scalps"
	ChannelMain   = "main"
	ChannelSwings = "swings"
)

// Router renders and delivers one alert per signal.
type Router struct {
	routing   config.RoutingConfig
	registry  *notifier.Registry
	formatter *alert.Formatter
	metrics   *metrics.Registry
	log       *zap.Logger
}

func New(routing config.RoutingConfig, registry *notifier.Registry, formatter *alert.Formatter, m *metrics.Registry, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		routing:   routing,
		registry:  registry,
		formatter: formatter,
		metrics:   m,
		log:       log,
	}
}

// ChannelFor maps a strategy kind to its logical channel.
func ChannelFor(kind core.StrategyKind) string {
	switch kind {
	case core.KindScalp:
		return ChannelScalps
	case core.KindSwing:
		return ChannelSwings
	default:
		return ChannelMain
	}
}

// Route renders the signal and sends it to the channel's notifier. A channel
// with no configured notifier is a dry run: the alert is logged and counted,
// never an error. Delivery failures are logged and surfaced to the caller.
func (r *Router) Route(ctx context.Context, sig core.Signal) error {
	channel := ChannelFor(sig.Kind)
	text := r.formatter.Format(ctx, sig)

	name, ok := r.routing.Channels[channel]
	if !ok || name == "" {
		r.log.Info("alert dry run",
			zap.String("channel", channel),
			zap.String("signal", sig.ID),
			zap.String("text", text))
		if r.metrics != nil {
			r.metrics.RecordSignalRouted("dry_run", "ok")
		}
		return nil
	}

	n, err := r.registry.Get(name)
	if err != nil {
		r.log.Error("channel target missing",
			zap.String("channel", channel),
			zap.String("notifier", name),
			zap.Error(err))
		if r.metrics != nil {
			r.metrics.RecordSignalRouted(name, "missing")
		}
		return err
	}

	if err := n.Send(ctx, text); err != nil {
		r.log.Error("alert delivery failed",
			zap.String("notifier", name),
			zap.String("signal", sig.ID),
			zap.Error(err))
		if r.metrics != nil {
			r.metrics.RecordSignalRouted(name, "error")
		}
		return core.WrapError(core.ErrNotifierFailed, err)
	}

	r.log.Info("alert routed",
		zap.String("channel", channel),
		zap.String("notifier", name),
		zap.String("ticker", sig.Ticker),
		zap.String("kind", string(sig.Kind)),
		zap.Float64("strength", sig.Strength))
	if r.metrics != nil {
		r.metrics.RecordSignalRouted(name, "ok")
	}
	return nil
}

// Broadcast sends pre-rendered text to a channel's notifier. Used for
// heartbeats and other status traffic that has no backing signal. Unmapped
// channels log the text instead.
func (r *Router) Broadcast(ctx context.Context, channel, text string) error {
	name, ok := r.routing.Channels[channel]
	if !ok || name == "" {
		r.log.Info("broadcast dry run",
			zap.String("channel", channel),
			zap.String("text", text))
		return nil
	}

	n, err := r.registry.Get(name)
	if err != nil {
		return err
	}
	if err := n.Send(ctx, text); err != nil {
		r.log.Error("broadcast failed",
			zap.String("notifier", name),
			zap.Error(err))
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	return nil
}
