// Package marketctx derives the technical context attached to each flow
// event: relative volume, VWAP relation, trend flags, and market regime.
package marketctx

import (
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// Intraday SMA periods for the short-horizon trend flag and daily periods
// for the higher-timeframe flag.
const (
	fastIntradaySMA = 5
	slowIntradaySMA = 15
	fastDailySMA    = 10
	slowDailySMA    = 30
	regimeLookback  = 20
)

// Attacher computes a MarketContext from a Snapshot. The metric formulas are
// hooks: each field can be swapped out (e.g. for a vendor-specific RVOL)
// without touching the gating logic. Attach is pure given the snapshot and
// the configured boundaries.
type Attacher struct {
	cfg config.RegimeConfig

	// RVOLFunc returns the relative volume and whether it could be computed.
	// Default: session volume / mean of the prior N session volumes.
	RVOLFunc func(Snapshot) (float64, bool)

	// VWAPFunc classifies price against VWAP. Default: last price vs last
	// VWAP sample, with a small band counting as "at".
	VWAPFunc func(Snapshot) core.VWAPRelation

	// ShortTrendFunc derives the intraday trend flag. Default: fast vs slow
	// SMA over intraday closes.
	ShortTrendFunc func(Snapshot) core.Trend

	// DailyTrendFunc derives the higher-timeframe flag. Default: SMA(10) vs
	// SMA(30) over daily closes.
	DailyTrendFunc func(Snapshot) core.Trend
}

// New creates an Attacher with the default metric hooks.
func New(cfg config.RegimeConfig) *Attacher {
	a := &Attacher{cfg: cfg}
	a.RVOLFunc = a.defaultRVOL
	a.VWAPFunc = a.defaultVWAP
	a.ShortTrendFunc = defaultShortTrend
	a.DailyTrendFunc = defaultDailyTrend
	return a
}

// Attach computes the full context for one event. Missing history never
// raises; the affected metric is reported as unknown and strategies treat
// unknown as a failing gate condition.
func (a *Attacher) Attach(event core.FlowEvent, snap Snapshot) core.MarketContext {
	mctx := core.MarketContext{
		VWAP:       a.VWAPFunc(snap),
		ShortTrend: a.ShortTrendFunc(snap),
		DailyTrend: a.DailyTrendFunc(snap),
		LevelBreak: a.levelBreak(snap),
	}
	mctx.RVOL, mctx.RVOLOK = a.RVOLFunc(snap)
	mctx.Regime = a.regime(snap, mctx.DailyTrend)
	return mctx
}

// defaultRVOL: today's running volume over the mean of the prior sessions.
// Only the most recent cfg.RVOLSessions sessions count.
func (a *Attacher) defaultRVOL(snap Snapshot) (float64, bool) {
	history := snap.PriorSessionVolumes
	if n := a.cfg.RVOLSessions; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	avg, ok := meanInt64(history)
	if !ok || avg <= 0 || snap.SessionVolume <= 0 {
		return 0, false
	}
	return float64(snap.SessionVolume) / avg, true
}

func (a *Attacher) defaultVWAP(snap Snapshot) core.VWAPRelation {
	if len(snap.VWAP) == 0 || snap.Price <= 0 {
		return core.VWAPUnknown
	}
	vwap := snap.VWAP[len(snap.VWAP)-1]
	if vwap <= 0 {
		return core.VWAPUnknown
	}
	band := vwap * a.cfg.VWAPBandPct / 100
	switch {
	case snap.Price > vwap+band:
		return core.VWAPAbove
	case snap.Price < vwap-band:
		return core.VWAPBelow
	default:
		return core.VWAPAt
	}
}

func defaultShortTrend(snap Snapshot) core.Trend {
	return smaTrend(snap.IntradayCloses, fastIntradaySMA, slowIntradaySMA)
}

func defaultDailyTrend(snap Snapshot) core.Trend {
	return smaTrend(snap.DailyCloses, fastDailySMA, slowDailySMA)
}

func smaTrend(closes []float64, fastPeriod, slowPeriod int) core.Trend {
	fast, okFast := sma(closes, fastPeriod)
	slow, okSlow := sma(closes, slowPeriod)
	if !okFast || !okSlow {
		return core.TrendUnknown
	}
	switch {
	case fast > slow:
		return core.TrendUp
	case fast < slow:
		return core.TrendDown
	default:
		return core.TrendFlat
	}
}

// levelBreak flags price trading through the prior session's range.
func (a *Attacher) levelBreak(snap Snapshot) core.Trend {
	if snap.Price <= 0 || snap.PriorHigh <= 0 || snap.PriorLow <= 0 {
		return core.TrendUnknown
	}
	switch {
	case snap.Price > snap.PriorHigh:
		return core.TrendUp
	case snap.Price < snap.PriorLow:
		return core.TrendDown
	default:
		return core.TrendFlat
	}
}

// regime crosses the direction of daily closes over the lookback with a
// volatility bucket from annualized daily returns.
func (a *Attacher) regime(snap Snapshot, dailyTrend core.Trend) core.Regime {
	regime := core.Regime{Trend: core.TrendUnknown, Volatility: core.VolUnknown}

	closes := snap.DailyCloses
	if len(closes) >= regimeLookback {
		window := closes[len(closes)-regimeLookback:]
		first, last := window[0], window[len(window)-1]
		if first > 0 {
			changePct := (last - first) / first * 100
			switch {
			case changePct > a.cfg.TrendPct:
				regime.Trend = core.TrendUp
			case changePct < -a.cfg.TrendPct:
				regime.Trend = core.TrendDown
			default:
				regime.Trend = core.TrendFlat
			}
		}
	} else if dailyTrend != core.TrendUnknown {
		regime.Trend = dailyTrend
	}

	if vol, ok := annualizedVol(closes); ok {
		switch {
		case vol < a.cfg.LowVol:
			regime.Volatility = core.VolLow
		case vol > a.cfg.HighVol:
			regime.Volatility = core.VolHigh
		default:
			regime.Volatility = core.VolNormal
		}
	}

	return regime
}
