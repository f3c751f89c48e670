package marketctx

// Snapshot is a provider-agnostic view of the market data needed to enrich
// one flow event. Any slice may be empty and any level may be zero; the
// attacher degrades the affected metric to its unknown marker instead of
// failing.
type Snapshot struct {
	Ticker string `json:"ticker"`

	// Last traded price of the underlying. Zero means unknown.
	Price float64 `json:"price"`

	// Today's running share volume and the totals of prior sessions,
	// oldest first.
	SessionVolume       int64   `json:"session_volume"`
	PriorSessionVolumes []int64 `json:"prior_session_volumes"`

	// Intraday VWAP samples, oldest first; the last entry is current.
	VWAP []float64 `json:"vwap"`

	// Intraday bar closes (short horizon), oldest first.
	IntradayCloses []float64 `json:"intraday_closes"`

	// Daily bar closes, oldest first.
	DailyCloses []float64 `json:"daily_closes"`

	// Prior session extremes for level-break detection. Zero means unknown.
	PriorHigh float64 `json:"prior_high"`
	PriorLow  float64 `json:"prior_low"`
}
