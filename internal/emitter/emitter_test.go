package emitter

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/strategy"
)

var baseTime = time.Date(2026, 5, 11, 14, 30, 0, 0, time.UTC)

func flowEvent(dte int) core.FlowEvent {
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

func fptr(v float64) *float64 { return &v }

func TestEmitter_StrategyOrderAndContent(t *testing.T) {
	e := New(config.Defaults(), strategy.NewMemory(), zap.NewNop())

	// A short-dated sized print passes scalp and day trade; its one day to
	// expiry sits below the swing floor.
	signals := e.Run(flowEvent(1), bullishContext())
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}
	if signals[0].Kind != core.KindScalp || signals[1].Kind != core.KindDayTrade {
		t.Errorf("signals out of strategy order: %s, %s", signals[0].Kind, signals[1].Kind)
	}

	s := signals[0]
	if s.ID == "" || s.ID == signals[1].ID {
		t.Error("each signal needs its own id")
	}
	if s.Ticker != "NVDA" || s.Direction != core.Bullish {
		t.Errorf("unexpected signal identity: %+v", s)
	}
	if !s.CreatedAt.Equal(baseTime) {
		t.Errorf("created-at should carry the event time, got %v", s.CreatedAt)
	}
	if s.Strength != 10 {
		t.Errorf("sweep+aggressive sized aligned print should clamp at 10, got %v", s.Strength)
	}
	if len(s.Rules) == 0 || len(s.Tags) == 0 {
		t.Errorf("signal should carry rules and tags: %+v", s)
	}
	hasTag := func(tags []string, want string) bool {
		for _, tag := range tags {
			if tag == want {
				return true
			}
		}
		return false
	}
	if !hasTag(s.Tags, "SIZE") || !hasTag(s.Tags, "TREND_CONFIRMED") {
		t.Errorf("expected SIZE and TREND_CONFIRMED tags, got %v", s.Tags)
	}
}

func TestEmitter_NoPassNoSignal(t *testing.T) {
	e := New(config.Defaults(), strategy.NewMemory(), zap.NewNop())

	event := flowEvent(1)
	event.Notional = 1_000 // under every size gate

	if signals := e.Run(event, bullishContext()); len(signals) != 0 {
		t.Errorf("undersized print should produce no signals, got %d", len(signals))
	}
}

func TestEmitter_MinStrengthFilter(t *testing.T) {
	cfg := config.Defaults()
	cfg.Strategies = map[string]config.Override{
		"scalp":     {MinStrength: fptr(8)},
		"day_trade": {MinStrength: fptr(8)},
	}
	e := New(cfg, strategy.NewMemory(), zap.NewNop())

	// Without execution boosters the rule sum lands at 6 for scalp and 7 for
	// day trade, both under the raised floor.
	event := flowEvent(1)
	event.Sweep = false
	event.Aggressive = false
	mctx := bullishContext()
	mctx.Regime.Trend = core.TrendUnknown

	if signals := e.Run(event, mctx); len(signals) != 0 {
		t.Errorf("signals under min_strength must be dropped, got %d", len(signals))
	}
}

func TestEmitter_MisconfiguredStrategySkipped(t *testing.T) {
	cfg := config.Defaults()
	cfg.Strategies = map[string]config.Override{
		"scalp": {MinNotional: fptr(0)}, // invalidates scalp only
	}
	e := New(cfg, strategy.NewMemory(), zap.NewNop())

	signals := e.Run(flowEvent(1), bullishContext())
	if len(signals) != 1 {
		t.Fatalf("expected the day-trade signal to survive, got %d", len(signals))
	}
	if signals[0].Kind != core.KindDayTrade {
		t.Errorf("expected day_trade, got %s", signals[0].Kind)
	}
}

func TestEmitter_SwingSignalAfterRepeatedBuying(t *testing.T) {
	e := New(config.Defaults(), strategy.NewMemory(), zap.NewNop())

	swing := func(offset time.Duration) core.FlowEvent {
		ev := flowEvent(45)
		ev.EventTime = baseTime.Add(offset)
		ev.Expiry = ev.EventTime.AddDate(0, 0, 45)
		return ev
	}

	e.Run(swing(0), bullishContext())
	e.Run(swing(30*time.Minute), bullishContext())
	signals := e.Run(swing(time.Hour), bullishContext())

	var found bool
	for _, s := range signals {
		if s.Kind == core.KindSwing {
			found = true
		}
	}
	if !found {
		t.Errorf("third repeated sized print should emit a swing signal, got %+v", signals)
	}
}
