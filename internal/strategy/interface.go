// Package strategy holds the three rule-gated evaluators (scalp, day trade,
// swing). Each evaluator applies an ordered sequence of boolean gates; all
// gates must pass for the strategy to accept the event. Gates are always
// evaluated in full so the triggered-rule list is complete even when a later
// gate fails, which the scorer and diagnostics rely on.
package strategy

import (
	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// Result is the outcome of one strategy evaluation.
type Result struct {
	Passed    bool
	Triggered []Rule // satisfied gates, in gate order
}

// Strategy is the common evaluator contract. Evaluate must be free of side
// effects, with the single documented exception of the swing evaluator's
// repeated-buying memory.
type Strategy interface {
	Name() string
	Kind() core.StrategyKind
	Evaluate(event core.FlowEvent, mctx core.MarketContext, th config.Thresholds) (Result, error)
}

// gateRun accumulates gate outcomes in order.
type gateRun struct {
	passed    bool
	triggered []Rule
}

func newGateRun() *gateRun {
	return &gateRun{passed: true}
}

// check records one gate outcome. Failing gates flip the overall result but
// never stop the run.
func (g *gateRun) check(rule Rule, ok bool) {
	if ok {
		g.triggered = append(g.triggered, rule)
	} else {
		g.passed = false
	}
}

func (g *gateRun) result() Result {
	return Result{Passed: g.passed, Triggered: g.triggered}
}
