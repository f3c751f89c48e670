package strategy

import (
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// Scalp accepts very short-dated, near-the-money prints whose direction
// agrees with the immediate intraday tape. It carries no regime gate; weak
// regimes are handled by scoring downstream.
type Scalp struct{}

func NewScalp() *Scalp { return &Scalp{} }

func (s *Scalp) Name() string           { return "scalp_momentum" }
func (s *Scalp) Kind() core.StrategyKind { return core.KindScalp }

func (s *Scalp) Evaluate(event core.FlowEvent, mctx core.MarketContext, th config.Thresholds) (Result, error) {
	if err := th.Validate(); err != nil {
		return Result{}, err
	}

	run := newGateRun()

	dte := event.DTE()
	run.check(RuleDTEWindow, dte >= th.MinDTE && dte <= th.MaxDTE)
	run.check(RuleSize, event.Notional >= th.MinNotional)
	run.check(RuleMoneyness, event.OTMPct() <= th.MaxOTMPct)
	run.check(RuleTrendAligned, scalpTrendAligned(event, mctx))
	run.check(RuleVolOverOI, volOverOI(event, th.VolOIFactor))

	return run.result(), nil
}

// scalpTrendAligned requires both the VWAP relation and the short-horizon
// trend to agree with the print's direction. Unknown context fails the gate.
func scalpTrendAligned(event core.FlowEvent, mctx core.MarketContext) bool {
	if event.Direction() == core.Bullish {
		return mctx.VWAP == core.VWAPAbove && mctx.ShortTrend == core.TrendUp
	}
	return mctx.VWAP == core.VWAPBelow && mctx.ShortTrend == core.TrendDown
}

// volOverOI flags new positioning: chain volume at or beyond open interest
// scaled by the configured factor.
func volOverOI(event core.FlowEvent, factor float64) bool {
	oi := event.OpenInterest
	if oi < 1 {
		oi = 1
	}
	return float64(event.Volume) >= float64(oi)*factor
}
