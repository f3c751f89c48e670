// Package emitter runs one flow event through every strategy evaluator and
// turns passing evaluations into signals.
package emitter

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/scoring"
	"github.com/quantlab/flowdesk/internal/strategy"
)

// ThresholdSource resolves the effective thresholds for a strategy/ticker
// pair. *config.Config satisfies it.
type ThresholdSource interface {
	ThresholdsFor(kind core.StrategyKind, ticker string) config.Thresholds
}

// Emitter evaluates events against the strategy set in a fixed order:
// scalp, day trade, swing. One event yields at most one signal per strategy.
type Emitter struct {
	strategies []strategy.Strategy
	thresholds ThresholdSource
	log        *zap.Logger
}

// New builds an emitter over the standard three-strategy set. The swing
// memory is shared by the caller so replay and live runs can scope it.
func New(thresholds ThresholdSource, memory *strategy.Memory, log *zap.Logger) *Emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{
		strategies: []strategy.Strategy{
			strategy.NewScalp(),
			strategy.NewDayTrade(),
			strategy.NewSwing(memory),
		},
		thresholds: thresholds,
		log:        log,
	}
}

// Run evaluates the event against every strategy and returns the signals in
// strategy order. A misconfigured strategy is logged and skipped; it never
// blocks the others. Signals below the strategy's minimum strength are
// dropped after scoring.
func (e *Emitter) Run(event core.FlowEvent, mctx core.MarketContext) []core.Signal {
	var signals []core.Signal

	for _, s := range e.strategies {
		th := e.thresholds.ThresholdsFor(s.Kind(), event.Ticker)

		res, err := s.Evaluate(event, mctx, th)
		if err != nil {
			e.log.Warn("strategy skipped",
				zap.String("strategy", s.Name()),
				zap.String("ticker", event.Ticker),
				zap.Error(err))
			continue
		}
		if !res.Passed {
			continue
		}

		strength, tags := scoring.Score(event, mctx, res.Triggered)
		if strength < th.MinStrength {
			e.log.Debug("signal below minimum strength",
				zap.String("strategy", s.Name()),
				zap.String("ticker", event.Ticker),
				zap.Float64("strength", strength),
				zap.Float64("min_strength", th.MinStrength))
			continue
		}

		signals = append(signals, core.Signal{
			ID:        uuid.NewString(),
			Ticker:    event.Ticker,
			Kind:      s.Kind(),
			Direction: event.Direction(),
			Strength:  strength,
			Tags:      tags,
			Rules:     strategy.Strings(res.Triggered),
			Event:     event,
			Context:   mctx,
			CreatedAt: event.EventTime,
		})
	}

	return signals
}
