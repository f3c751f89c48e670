package strategy

import (
	"time"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

var baseTime = time.Date(2026, 5, 11, 14, 30, 0, 0, time.UTC)

// callEvent builds an in-the-band call print that satisfies every scalp gate
// given bullish context.
func callEvent(dte int) core.FlowEvent {
	return core.FlowEvent{
		Ticker:          "NVDA",
		Right:           core.RightCall,
		Strike:          122,
		Expiry:          baseTime.AddDate(0, 0, dte),
		Contracts:       500,
		Premium:         3.7,
		Notional:        185_000,
		Volume:          9000,
		OpenInterest:    2100,
		UnderlyingPrice: 121.2,
		Sweep:           true,
		Aggressive:      true,
		EventTime:       baseTime,
	}
}

func putEvent(dte int) core.FlowEvent {
	e := callEvent(dte)
	e.Right = core.RightPut
	e.Strike = 120
	return e
}

func bullishContext() core.MarketContext {
	return core.MarketContext{
		RVOL:       2.0,
		RVOLOK:     true,
		VWAP:       core.VWAPAbove,
		ShortTrend: core.TrendUp,
		DailyTrend: core.TrendUp,
		LevelBreak: core.TrendUp,
		Regime:     core.Regime{Trend: core.TrendUp, Volatility: core.VolNormal},
	}
}

func bearishContext() core.MarketContext {
	return core.MarketContext{
		RVOL:       2.0,
		RVOLOK:     true,
		VWAP:       core.VWAPBelow,
		ShortTrend: core.TrendDown,
		DailyTrend: core.TrendDown,
		LevelBreak: core.TrendDown,
		Regime:     core.Regime{Trend: core.TrendDown, Volatility: core.VolNormal},
	}
}

func unknownContext() core.MarketContext {
	return core.MarketContext{
		VWAP:       core.VWAPUnknown,
		ShortTrend: core.TrendUnknown,
		DailyTrend: core.TrendUnknown,
		LevelBreak: core.TrendUnknown,
		Regime:     core.Regime{Trend: core.TrendUnknown, Volatility: core.VolUnknown},
	}
}

func thresholds(kind core.StrategyKind) config.Thresholds {
	return config.DefaultThresholds(kind)
}

func hasRule(triggered []Rule, rule Rule) bool {
	for _, r := range triggered {
		if r == rule {
			return true
		}
	}
	return false
}
