package config

import (
	"fmt"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

// Thresholds is the fully resolved parameter set one strategy uses for one
// ticker. Every field always has a value after Resolve; evaluators never see
// a partial set.
type Thresholds struct {
	MinDTE      int
	MaxDTE      int
	MinNotional float64
	MaxOTMPct   float64
	MinRVOL     float64
	MinStrength float64
	VolOIFactor float64 // volume must reach OpenInterest * factor

	// Swing repeated-buying memory
	RepeatCount  int
	RepeatWindow time.Duration

	// Paper trading exits
	TPPct   float64
	SLPct   float64
	MaxHold time.Duration
}

// Override is one sparse configuration layer. Nil fields fall through to the
// layer below; later layers win on collision.
type Override struct {
	MinDTE       *int           `mapstructure:"min_dte"`
	MaxDTE       *int           `mapstructure:"max_dte"`
	MinNotional  *float64       `mapstructure:"min_notional"`
	MaxOTMPct    *float64       `mapstructure:"max_otm_pct"`
	MinRVOL      *float64       `mapstructure:"min_rvol"`
	MinStrength  *float64       `mapstructure:"min_strength"`
	VolOIFactor  *float64       `mapstructure:"vol_oi_factor"`
	RepeatCount  *int           `mapstructure:"repeat_count"`
	RepeatWindow *time.Duration `mapstructure:"repeat_window"`
	TPPct        *float64       `mapstructure:"tp_pct"`
	SLPct        *float64       `mapstructure:"sl_pct"`
	MaxHold      *time.Duration `mapstructure:"max_hold"`
}

// Apply returns t with every non-nil field of the override replacing the
// corresponding value.
func (o Override) Apply(t Thresholds) Thresholds {
	if o.MinDTE != nil {
		t.MinDTE = *o.MinDTE
	}
	if o.MaxDTE != nil {
		t.MaxDTE = *o.MaxDTE
	}
	if o.MinNotional != nil {
		t.MinNotional = *o.MinNotional
	}
	if o.MaxOTMPct != nil {
		t.MaxOTMPct = *o.MaxOTMPct
	}
	if o.MinRVOL != nil {
		t.MinRVOL = *o.MinRVOL
	}
	if o.MinStrength != nil {
		t.MinStrength = *o.MinStrength
	}
	if o.VolOIFactor != nil {
		t.VolOIFactor = *o.VolOIFactor
	}
	if o.RepeatCount != nil {
		t.RepeatCount = *o.RepeatCount
	}
	if o.RepeatWindow != nil {
		t.RepeatWindow = *o.RepeatWindow
	}
	if o.TPPct != nil {
		t.TPPct = *o.TPPct
	}
	if o.SLPct != nil {
		t.SLPct = *o.SLPct
	}
	if o.MaxHold != nil {
		t.MaxHold = *o.MaxHold
	}
	return t
}

// Merge combines two overrides into one; fields set on later win.
func (o Override) Merge(later Override) Override {
	out := o
	if later.MinDTE != nil {
		out.MinDTE = later.MinDTE
	}
	if later.MaxDTE != nil {
		out.MaxDTE = later.MaxDTE
	}
	if later.MinNotional != nil {
		out.MinNotional = later.MinNotional
	}
	if later.MaxOTMPct != nil {
		out.MaxOTMPct = later.MaxOTMPct
	}
	if later.MinRVOL != nil {
		out.MinRVOL = later.MinRVOL
	}
	if later.MinStrength != nil {
		out.MinStrength = later.MinStrength
	}
	if later.VolOIFactor != nil {
		out.VolOIFactor = later.VolOIFactor
	}
	if later.RepeatCount != nil {
		out.RepeatCount = later.RepeatCount
	}
	if later.RepeatWindow != nil {
		out.RepeatWindow = later.RepeatWindow
	}
	if later.TPPct != nil {
		out.TPPct = later.TPPct
	}
	if later.SLPct != nil {
		out.SLPct = later.SLPct
	}
	if later.MaxHold != nil {
		out.MaxHold = later.MaxHold
	}
	return out
}

// Resolve applies layers over the defaults in order. The layering is
// associative: merging all layers first and applying once yields the same
// result as applying them one by one.
func Resolve(defaults Thresholds, layers ...Override) Thresholds {
	t := defaults
	for _, l := range layers {
		t = l.Apply(t)
	}
	return t
}

// DefaultThresholds returns the built-in per-strategy defaults.
func DefaultThresholds(kind core.StrategyKind) Thresholds {
	switch kind {
	case core.KindScalp:
		return Thresholds{
			MinDTE:      0,
			MaxDTE:      2,
			MinNotional: 25_000,
			MaxOTMPct:   3,
			MinRVOL:     1.5,
			MinStrength: 4,
			VolOIFactor: 2,
			TPPct:       2,
			SLPct:       1,
			MaxHold:     30 * time.Minute,
		}
	case core.KindDayTrade:
		return Thresholds{
			MinDTE:      0,
			MaxDTE:      14,
			MinNotional: 50_000,
			MaxOTMPct:   5,
			MinRVOL:     1.2,
			MinStrength: 5,
			VolOIFactor: 1.5,
			TPPct:       5,
			SLPct:       2,
			MaxHold:     6 * time.Hour,
		}
	case core.KindSwing:
		return Thresholds{
			MinDTE:       14,
			MaxDTE:       180,
			MinNotional:  100_000,
			MaxOTMPct:    10,
			MinRVOL:      1,
			MinStrength:  6, // swing demands stronger confluence
			VolOIFactor:  1,
			RepeatCount:  3,
			RepeatWindow: 4 * time.Hour,
			TPPct:        15,
			SLPct:        5,
			MaxHold:      7 * 24 * time.Hour,
		}
	default:
		return Thresholds{}
	}
}

// Validate reports whether the resolved set is usable by an evaluator.
// A failure here is a ConfigurationError: the strategy is skipped for the
// current event and the rest of the pipeline continues.
func (t Thresholds) Validate() error {
	switch {
	case t.MaxDTE < t.MinDTE:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_dte %d below min_dte %d", t.MaxDTE, t.MinDTE))
	case t.MinNotional <= 0:
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("min_notional must be positive, got %.2f", t.MinNotional))
	case t.MaxOTMPct <= 0:
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("max_otm_pct must be positive, got %.2f", t.MaxOTMPct))
	case t.MinStrength < 0 || t.MinStrength > 10:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_strength must be within [0,10], got %.2f", t.MinStrength))
	case t.TPPct <= 0 || t.SLPct <= 0:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("tp_pct/sl_pct must be positive, got %.2f/%.2f", t.TPPct, t.SLPct))
	case t.MaxHold <= 0:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_hold must be positive, got %s", t.MaxHold))
	}
	return nil
}
