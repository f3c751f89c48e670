// Package scoring converts a passed evaluation into a 0-10 strength and the
// human-readable tag list carried on the emitted signal. Scoring is purely
// additive over the triggered rules plus a handful of event and context
// boosters, clamped at both ends. The same inputs always produce the same
// score and the same tag order.
package scoring

import (
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/strategy"
)

const (
	// MaxStrength caps the additive score.
	MaxStrength = 10.0
)

// ruleWeight pairs a rule with its contribution and tag. Kept as an ordered
// slice, not a map, so tag order is stable run to run.
type ruleWeight struct {
	rule   strategy.Rule
	points float64
	tag    string
}

var ruleWeights = []ruleWeight{
	{strategy.RuleSize, 2, "SIZE"},
	{strategy.RuleVolOverOI, 2, "VOL>OI"},
	{strategy.RuleTrendAligned, 2, "TREND_CONFIRMED"},
	{strategy.RuleLevelBreak, 1, "LEVEL_BREAK"},
	{strategy.RuleRepeatBuying, 1, "PERSISTENT_BUYER"},
}

// Score grades one passed evaluation. The strength is the clamped sum of the
// weighted triggered rules and the execution/context boosters; tags name each
// contributing factor in a fixed order.
func Score(event core.FlowEvent, mctx core.MarketContext, triggered []strategy.Rule) (float64, []string) {
	var strength float64
	var tags []string

	hit := make(map[strategy.Rule]bool, len(triggered))
	for _, r := range triggered {
		hit[r] = true
	}

	for _, w := range ruleWeights {
		if hit[w.rule] {
			strength += w.points
			tags = append(tags, w.tag)
		}
	}

	if event.Sweep {
		strength += 2
		tags = append(tags, "SWEEP")
	}
	if event.Aggressive {
		strength += 2
		tags = append(tags, "AGGRESSIVE")
	}
	if event.Split {
		strength += 1
		tags = append(tags, "CLUSTER")
	}
	if mctx.Regime.Aligned(event.Direction()) {
		strength += 1
		tags = append(tags, "REGIME_ALIGNED")
	}

	if strength > MaxStrength {
		strength = MaxStrength
	}
	if strength < 0 {
		strength = 0
	}
	return strength, tags
}
