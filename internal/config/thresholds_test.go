package config

import (
	"testing"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

func fptr(f float64) *float64        { return &f }
func iptr(i int) *int                { return &i }
func dptr(d time.Duration) *time.Duration { return &d }

func TestResolve_LaterLayersWin(t *testing.T) {
	defaults := DefaultThresholds(core.KindScalp)

	mode := Override{MinNotional: fptr(40_000), MaxDTE: iptr(3)}
	ticker := Override{MinNotional: fptr(75_000)}

	got := Resolve(defaults, mode, ticker)

	if got.MinNotional != 75_000 {
		t.Errorf("ticker layer should win, got min_notional %.0f", got.MinNotional)
	}
	if got.MaxDTE != 3 {
		t.Errorf("mode layer should survive, got max_dte %d", got.MaxDTE)
	}
	if got.MaxOTMPct != defaults.MaxOTMPct {
		t.Errorf("untouched keys should fall back to defaults, got %.1f", got.MaxOTMPct)
	}
}

func TestResolve_Associative(t *testing.T) {
	defaults := DefaultThresholds(core.KindSwing)

	mode := Override{
		MinNotional:  fptr(150_000),
		RepeatCount:  iptr(4),
		RepeatWindow: dptr(2 * time.Hour),
	}
	ticker := Override{
		MinNotional: fptr(250_000),
		MinStrength: fptr(7),
	}

	sequential := Resolve(defaults, mode, ticker)
	combined := Resolve(defaults, mode.Merge(ticker))

	if sequential != combined {
		t.Errorf("sequential and merged resolution differ:\n%+v\n%+v", sequential, combined)
	}
}

func TestDefaultThresholds_PerKind(t *testing.T) {
	scalp := DefaultThresholds(core.KindScalp)
	day := DefaultThresholds(core.KindDayTrade)
	swing := DefaultThresholds(core.KindSwing)

	if scalp.MaxDTE >= day.MaxDTE || day.MaxDTE >= swing.MaxDTE {
		t.Error("DTE windows should widen from scalp to swing")
	}
	if swing.MinDTE == 0 {
		t.Error("swing should carry a DTE floor")
	}
	if swing.MinStrength <= day.MinStrength {
		t.Error("swing should demand a higher minimum strength")
	}
	if scalp.TPPct != 2 || scalp.SLPct != 1 || scalp.MaxHold != 30*time.Minute {
		t.Errorf("unexpected scalp exit defaults: %+v", scalp)
	}

	for _, th := range []Thresholds{scalp, day, swing} {
		if err := th.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"dte window inverted", func(th *Thresholds) { th.MinDTE = 10; th.MaxDTE = 5 }},
		{"no min notional", func(th *Thresholds) { th.MinNotional = 0 }},
		{"no otm cap", func(th *Thresholds) { th.MaxOTMPct = 0 }},
		{"strength out of range", func(th *Thresholds) { th.MinStrength = 11 }},
		{"no stop", func(th *Thresholds) { th.SLPct = 0 }},
		{"no hold", func(th *Thresholds) { th.MaxHold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds(core.KindDayTrade)
			tt.mutate(&th)
			if th.Validate() == nil {
				t.Error("expected validation error")
			}
		})
	}
}
