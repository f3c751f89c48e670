package paper

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

var openTime = time.Date(2026, 5, 11, 14, 30, 0, 0, time.UTC)

func testSignal(ticker string, dir core.Direction, price float64) core.Signal {
	right := core.RightCall
	if dir == core.Bearish {
		right = core.RightPut
	}
	return core.Signal{
		ID:        "sig-" + ticker,
		Ticker:    ticker,
		Kind:      core.KindScalp,
		Direction: dir,
		Strength:  7,
		Event: core.FlowEvent{
			Ticker:          ticker,
			Right:           right,
			UnderlyingPrice: price,
			EventTime:       openTime,
		},
		CreatedAt: openTime,
	}
}

func scalpThresholds() config.Thresholds {
	return config.DefaultThresholds(core.KindScalp) // +2% TP, -1% SL, 30m hold
}

func TestEngine_TakeProfit(t *testing.T) {
	e := NewEngine(zap.NewNop())
	pos := e.Open(testSignal("TSLA", core.Bullish, 243.40), scalpThresholds())

	if pos.Status != StatusOpen {
		t.Fatalf("new position should be open, got %s", pos.Status)
	}
	if math.Abs(pos.TP-248.268) > 1e-9 {
		t.Errorf("unexpected tp level %v", pos.TP)
	}

	closed := e.UpdatePrices(map[string]float64{"TSLA": 248.50}, openTime.Add(5*time.Minute))
	if len(closed) != 1 || closed[0].Status != StatusClosedTP {
		t.Fatalf("expected one CLOSED_TP, got %+v", closed)
	}
	if got := closed[0].ReturnPct; math.Abs(got-2.0953) > 0.001 {
		t.Errorf("expected return about +2.09%%, got %v", got)
	}
	if e.OpenCount() != 0 {
		t.Errorf("closed position still counted open")
	}
}

func TestEngine_StopLoss(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("TSLA", core.Bullish, 100), scalpThresholds())

	closed := e.UpdatePrices(map[string]float64{"TSLA": 98.80}, openTime.Add(time.Minute))
	if len(closed) != 1 || closed[0].Status != StatusClosedSL {
		t.Fatalf("expected CLOSED_SL, got %+v", closed)
	}
	if got := closed[0].ReturnPct; math.Abs(got-(-1.2)) > 1e-9 {
		t.Errorf("expected -1.2%% return, got %v", got)
	}
}

func TestEngine_BearishMirrorsLevels(t *testing.T) {
	e := NewEngine(zap.NewNop())
	pos := e.Open(testSignal("SPY", core.Bearish, 100), scalpThresholds())

	if pos.TP != 98 || pos.SL != 101 {
		t.Fatalf("bearish levels should mirror, got tp=%v sl=%v", pos.TP, pos.SL)
	}

	closed := e.UpdatePrices(map[string]float64{"SPY": 97.50}, openTime.Add(time.Minute))
	if len(closed) != 1 || closed[0].Status != StatusClosedTP {
		t.Fatalf("falling price should take profit a bearish position, got %+v", closed)
	}
	if got := closed[0].ReturnPct; math.Abs(got-2.5) > 1e-9 {
		t.Errorf("bearish gain should be positive, got %v", got)
	}
}

func TestEngine_DeadlineBeatsLevels(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())

	// The update lands past the deadline with a price that would also hit
	// take-profit; the timeout wins.
	closed := e.UpdatePrices(map[string]float64{"AMD": 110}, openTime.Add(31*time.Minute))
	if len(closed) != 1 || closed[0].Status != StatusClosedTimeout {
		t.Fatalf("expected CLOSED_TIMEOUT, got %+v", closed)
	}
	if closed[0].ExitPrice != 110 {
		t.Errorf("timeout should exit at the latest known price, got %v", closed[0].ExitPrice)
	}
}

func TestEngine_TimeoutUsesLastKnownPrice(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())

	e.UpdatePrices(map[string]float64{"AMD": 100.50}, openTime.Add(time.Minute))

	// Past the deadline with no fresh AMD price; the stale one closes it.
	closed := e.UpdatePrices(map[string]float64{"TSLA": 250}, openTime.Add(time.Hour))
	if len(closed) != 1 || closed[0].Status != StatusClosedTimeout {
		t.Fatalf("expected CLOSED_TIMEOUT, got %+v", closed)
	}
	if closed[0].ExitPrice != 100.50 {
		t.Errorf("expected exit at last known price 100.50, got %v", closed[0].ExitPrice)
	}
}

func TestEngine_NoKnownPriceNeverCloses(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())

	closed := e.UpdatePrices(map[string]float64{"TSLA": 250}, openTime.Add(2*time.Hour))
	if len(closed) != 0 {
		t.Fatalf("a position with no price history must stay open, got %+v", closed)
	}
	if e.OpenCount() != 1 {
		t.Error("position should remain open")
	}
}

func TestEngine_StalePriceDoesNotTriggerLevels(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())
	e.UpdatePrices(map[string]float64{"AMD": 103}, openTime.Add(time.Minute))

	// 103 already closed it; open a second position and verify the stale
	// 103 does not close it in an update that lacks AMD.
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())
	closed := e.UpdatePrices(map[string]float64{"TSLA": 250}, openTime.Add(2*time.Minute))
	if len(closed) != 0 {
		t.Errorf("stale prices must not trip tp/sl, got %+v", closed)
	}
}

func TestEngine_TPWinsOverSLOnSamePrint(t *testing.T) {
	e := NewEngine(zap.NewNop())
	th := scalpThresholds()
	th.TPPct = 0
	th.SLPct = 0
	e.Open(testSignal("AMD", core.Bullish, 100), th)

	// Degenerate levels where entry price satisfies both; the profitable
	// exit is preferred.
	closed := e.UpdatePrices(map[string]float64{"AMD": 100}, openTime.Add(time.Minute))
	if len(closed) != 1 || closed[0].Status != StatusClosedTP {
		t.Fatalf("take-profit should win the tie, got %+v", closed)
	}
}

func TestEngine_ClosedExactlyOnce(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())

	first := e.UpdatePrices(map[string]float64{"AMD": 103}, openTime.Add(time.Minute))
	if len(first) != 1 {
		t.Fatalf("expected one close, got %d", len(first))
	}
	again := e.UpdatePrices(map[string]float64{"AMD": 90}, openTime.Add(2*time.Minute))
	if len(again) != 0 {
		t.Errorf("closed position must never close twice, got %+v", again)
	}
	if got := e.Positions()[0].Status; got != StatusClosedTP {
		t.Errorf("terminal status must not change, got %s", got)
	}
}

func TestEngine_PositionsInInsertionOrder(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.Open(testSignal("AMD", core.Bullish, 100), scalpThresholds())
	e.Open(testSignal("TSLA", core.Bullish, 200), scalpThresholds())
	e.Open(testSignal("SPY", core.Bearish, 500), scalpThresholds())

	got := e.Positions()
	if len(got) != 3 || got[0].Ticker != "AMD" || got[1].Ticker != "TSLA" || got[2].Ticker != "SPY" {
		t.Errorf("positions out of insertion order: %+v", got)
	}
}
