package strategy

import (
	"testing"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

// swingEvent is a sized, longer-dated call inside the OTM guard band.
func swingEvent(offset time.Duration) core.FlowEvent {
	e := callEvent(45)
	e.Notional = 250_000
	e.EventTime = baseTime.Add(offset)
	e.Expiry = e.EventTime.AddDate(0, 0, 45)
	return e
}

func TestSwing_RepeatedBuyingSatisfiedOnThirdEvent(t *testing.T) {
	s := NewSwing(NewMemory())
	th := thresholds(core.KindSwing)
	mctx := bullishContext()

	first, err := s.Evaluate(swingEvent(0), mctx, th)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Passed {
		t.Error("first event should fail the repeat-buying gate")
	}

	second, _ := s.Evaluate(swingEvent(30*time.Minute), mctx, th)
	if second.Passed {
		t.Error("second event should still fail the repeat-buying gate")
	}

	third, _ := s.Evaluate(swingEvent(time.Hour), mctx, th)
	if !third.Passed {
		t.Errorf("third event inside the window should pass, triggered: %v", third.Triggered)
	}
	if !hasRule(third.Triggered, RuleRepeatBuying) {
		t.Error("repeat-buying rule should be triggered on the third event")
	}
}

func TestSwing_EvictedEventsDoNotCount(t *testing.T) {
	s := NewSwing(NewMemory())
	th := thresholds(core.KindSwing) // 4h window, 3 repeats

	s.Evaluate(swingEvent(0), bullishContext(), th)
	s.Evaluate(swingEvent(time.Hour), bullishContext(), th)
	s.Evaluate(swingEvent(2*time.Hour), bullishContext(), th)

	// A fourth qualifying event lands after the window has rolled past the
	// first three; eviction means it starts a fresh count.
	res, err := s.Evaluate(swingEvent(8*time.Hour), bullishContext(), th)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Passed {
		t.Error("events pruned from memory must not satisfy the gate")
	}
}

func TestSwing_UndersizedPrintsAreNotRecorded(t *testing.T) {
	mem := NewMemory()
	s := NewSwing(mem)
	th := thresholds(core.KindSwing)

	small := swingEvent(0)
	small.Notional = 10_000
	s.Evaluate(small, bullishContext(), th)
	s.Evaluate(small, bullishContext(), th)

	if got := mem.Count("NVDA", core.Bullish, baseTime, th.RepeatWindow); got != 0 {
		t.Errorf("undersized prints must not enter memory, got %d", got)
	}
}

func TestSwing_DTEFloor(t *testing.T) {
	s := NewSwing(NewMemory())
	short := swingEvent(0)
	short.Expiry = short.EventTime.AddDate(0, 0, 3)

	res, err := s.Evaluate(short, bullishContext(), thresholds(core.KindSwing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasRule(res.Triggered, RuleDTEWindow) {
		t.Error("3 DTE sits below the swing floor")
	}
	if res.Passed {
		t.Error("short-dated print should not pass swing")
	}
}

func TestSwing_DailyTrendGate(t *testing.T) {
	s := NewSwing(NewMemory())
	th := thresholds(core.KindSwing)
	mctx := bullishContext()
	mctx.DailyTrend = core.TrendDown

	res, _ := s.Evaluate(swingEvent(0), mctx, th)
	if hasRule(res.Triggered, RuleTrendAligned) {
		t.Error("bullish print against a falling daily trend must fail alignment")
	}
}

func TestSwing_SharedMemoryAcrossInstances(t *testing.T) {
	mem := NewMemory()
	th := thresholds(core.KindSwing)

	// Two evaluator instances over the same arena see the same history.
	a, b := NewSwing(mem), NewSwing(mem)
	a.Evaluate(swingEvent(0), bullishContext(), th)
	b.Evaluate(swingEvent(30*time.Minute), bullishContext(), th)
	res, _ := a.Evaluate(swingEvent(time.Hour), bullishContext(), th)

	if !res.Passed {
		t.Error("memory should be shared through the injected arena")
	}
}
