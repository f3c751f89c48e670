package strategy

import (
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// Swing accepts longer-dated accumulation: sized prints inside an OTM guard
// band, aligned with the daily trend, and repeated across several recent
// events on the same ticker and direction. The repeated-buying memory is the
// one piece of evaluator state in the pipeline; it is injected so callers
// control its scope.
type Swing struct {
	memory *Memory
}

func NewSwing(memory *Memory) *Swing {
	if memory == nil {
		memory = NewMemory()
	}
	return &Swing{memory: memory}
}

func (s *Swing) Name() string            { return "swing_accumulation" }
func (s *Swing) Kind() core.StrategyKind { return core.KindSwing }

func (s *Swing) Evaluate(event core.FlowEvent, mctx core.MarketContext, th config.Thresholds) (Result, error) {
	if err := th.Validate(); err != nil {
		return Result{}, err
	}

	run := newGateRun()

	dte := event.DTE()
	run.check(RuleDTEWindow, dte >= th.MinDTE && dte <= th.MaxDTE)

	// The size gate doubles as the qualifier for the repeated-buying
	// memory: undersized prints are never recorded.
	sized := event.Notional >= th.MinNotional
	run.check(RuleSize, sized)
	run.check(RuleMoneyness, event.OTMPct() <= th.MaxOTMPct)
	run.check(RuleTrendAligned, swingTrendAligned(event, mctx))

	seen := s.memory.Count(event.Ticker, event.Direction(), event.EventTime, th.RepeatWindow)
	if sized {
		seen = s.memory.Observe(event.Ticker, event.Direction(), event.EventTime, event.Notional, th.RepeatWindow)
	}
	run.check(RuleRepeatBuying, seen >= th.RepeatCount)

	return run.result(), nil
}

func swingTrendAligned(event core.FlowEvent, mctx core.MarketContext) bool {
	if event.Direction() == core.Bullish {
		return mctx.DailyTrend == core.TrendUp
	}
	return mctx.DailyTrend == core.TrendDown
}
