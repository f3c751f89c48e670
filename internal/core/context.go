package core

// Trend is a directional flag with an explicit unknown state. Strategies must
// treat TrendUnknown as a failing condition for any gate that requires it.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendFlat    Trend = "flat"
	TrendUnknown Trend = "unknown"
)

// VWAPRelation describes where the underlying trades relative to VWAP.
type VWAPRelation string

const (
	VWAPAbove   VWAPRelation = "above"
	VWAPBelow   VWAPRelation = "below"
	VWAPAt      VWAPRelation = "at"
	VWAPUnknown VWAPRelation = "unknown"
)

// VolBucket classifies realized volatility of the underlying.
type VolBucket string

const (
	VolLow     VolBucket = "low"
	VolNormal  VolBucket = "normal"
	VolHigh    VolBucket = "high"
	VolUnknown VolBucket = "unknown"
)

// Regime is the detected market regime: trend direction crossed with a
// volatility bucket.
type Regime struct {
	Trend      Trend
	Volatility VolBucket
}

// MarketContext is the derived technical context attached to a FlowEvent.
// It is computed once per event and never recomputed retroactively. Metrics
// that could not be computed from the available history carry their unknown
// marker (RVOLOK=false, TrendUnknown, VWAPUnknown).
type MarketContext struct {
	RVOL       float64 // session volume relative to recent sessions
	RVOLOK     bool    // false when volume history was insufficient
	VWAP       VWAPRelation
	ShortTrend Trend // intraday, short-horizon
	DailyTrend Trend // higher timeframe
	LevelBreak Trend // up = breaking prior session high, down = prior low
	Regime     Regime
}

// Aligned reports whether the regime trend agrees with the given direction.
func (r Regime) Aligned(d Direction) bool {
	return (r.Trend == TrendUp && d == Bullish) || (r.Trend == TrendDown && d == Bearish)
}
