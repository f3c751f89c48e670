package core

import (
	"fmt"
	"time"
)

// OptionRight is the contract right of an option.
type OptionRight string

const (
	RightCall OptionRight = "CALL"
	RightPut  OptionRight = "PUT"
)

// Direction is the market bias implied by a flow event or signal.
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
)

// StrategyKind identifies one of the three evaluation strategies.
type StrategyKind string

const (
	KindScalp    StrategyKind = "scalp"
	KindDayTrade StrategyKind = "day_trade"
	KindSwing    StrategyKind = "swing"
)

// Kinds returns all strategy kinds in evaluation order.
func Kinds() []StrategyKind {
	return []StrategyKind{KindScalp, KindDayTrade, KindSwing}
}

// FlowEvent is one normalized options trade/sweep print from a provider.
// Events are immutable after creation; the pipeline only reads them.
type FlowEvent struct {
	Ticker          string
	Right           OptionRight
	Strike          float64
	Expiry          time.Time // date component only
	Contracts       int64
	Premium         float64 // executed option price per contract
	Notional        float64 // Contracts * Premium * 100
	Volume          int64
	OpenInterest    int64
	UnderlyingPrice float64
	Sweep           bool
	Aggressive      bool // at/above ask for buys, at/below bid for sells
	Split           bool // part of a split/cluster execution
	EventTime       time.Time
}

// Direction maps the option right to the implied bias.
func (e FlowEvent) Direction() Direction {
	if e.Right == RightPut {
		return Bearish
	}
	return Bullish
}

// DTE returns calendar days from the event date to expiry.
func (e FlowEvent) DTE() int {
	ed := e.EventTime.Truncate(24 * time.Hour)
	xd := e.Expiry.Truncate(24 * time.Hour)
	return int(xd.Sub(ed).Hours() / 24)
}

// OTMPct returns how far the strike sits from the underlying, in percent.
func (e FlowEvent) OTMPct() float64 {
	u := e.UnderlyingPrice
	if u < 1 {
		u = 1
	}
	d := e.Strike - u
	if d < 0 {
		d = -d
	}
	return d / u * 100
}

// Validate rejects malformed events before they reach the pipeline.
func (e FlowEvent) Validate() error {
	switch {
	case e.Ticker == "":
		return WrapError(ErrEventInvalid, fmt.Errorf("missing ticker"))
	case e.Right != RightCall && e.Right != RightPut:
		return WrapError(ErrEventInvalid, fmt.Errorf("bad option right %q", e.Right))
	case e.Notional < 0:
		return WrapError(ErrEventInvalid, fmt.Errorf("negative notional %.2f", e.Notional))
	case e.Contracts <= 0:
		return WrapError(ErrEventInvalid, fmt.Errorf("non-positive contracts %d", e.Contracts))
	case e.UnderlyingPrice <= 0:
		return WrapError(ErrEventInvalid, fmt.Errorf("non-positive underlying price %.2f", e.UnderlyingPrice))
	case e.DTE() < 0:
		return WrapError(ErrEventInvalid, fmt.Errorf("expiry %s before event date", e.Expiry.Format("2006-01-02")))
	}
	return nil
}

// Signal is the output of one passing strategy evaluation. Immutable once
// built; downstream owners (router, paper engine, store) hold their own copy.
type Signal struct {
	ID        string
	Ticker    string
	Kind      StrategyKind
	Direction Direction
	Strength  float64 // 0..10
	Tags      []string
	Rules     []string // triggered rule ids, in gate order
	Event     FlowEvent
	Context   MarketContext
	CreatedAt time.Time
}
