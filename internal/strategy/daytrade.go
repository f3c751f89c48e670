package strategy

import (
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// DayTrade accepts mid-dated prints riding an intraday trend through a prior
// session level, with a relative-volume gate as its regime filter.
type DayTrade struct{}

func NewDayTrade() *DayTrade { return &DayTrade{} }

func (d *DayTrade) Name() string            { return "day_trend" }
func (d *DayTrade) Kind() core.StrategyKind { return core.KindDayTrade }

func (d *DayTrade) Evaluate(event core.FlowEvent, mctx core.MarketContext, th config.Thresholds) (Result, error) {
	if err := th.Validate(); err != nil {
		return Result{}, err
	}

	run := newGateRun()

	dte := event.DTE()
	run.check(RuleDTEWindow, dte >= th.MinDTE && dte <= th.MaxDTE)
	run.check(RuleSize, event.Notional >= th.MinNotional)
	run.check(RuleMoneyness, event.OTMPct() <= th.MaxOTMPct)
	run.check(RuleTrendAligned, dayTrendAligned(event, mctx))
	run.check(RuleLevelBreak, breakAligned(event, mctx))
	run.check(RuleVolOverOI, volOverOI(event, th.VolOIFactor))
	run.check(RuleRVOL, mctx.RVOLOK && mctx.RVOL >= th.MinRVOL)

	return run.result(), nil
}

func dayTrendAligned(event core.FlowEvent, mctx core.MarketContext) bool {
	if event.Direction() == core.Bullish {
		return mctx.ShortTrend == core.TrendUp
	}
	return mctx.ShortTrend == core.TrendDown
}

// breakAligned wants price pushing through the prior session's extreme in
// the print's direction.
func breakAligned(event core.FlowEvent, mctx core.MarketContext) bool {
	if event.Direction() == core.Bullish {
		return mctx.LevelBreak == core.TrendUp
	}
	return mctx.LevelBreak == core.TrendDown
}
