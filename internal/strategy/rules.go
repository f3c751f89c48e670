package strategy

// Rule identifies one gate in a strategy's sequence. The vocabulary is shared
// across strategies: the same rule id always means the same condition, only
// the thresholds differ.
type Rule string

const (
	RuleDTEWindow    Rule = "dte_window"
	RuleSize         Rule = "min_notional"
	RuleMoneyness    Rule = "moneyness"
	RuleTrendAligned Rule = "trend_aligned"
	RuleVolOverOI    Rule = "vol_over_oi"
	RuleRVOL         Rule = "rvol"
	RuleLevelBreak   Rule = "level_break"
	RuleRepeatBuying Rule = "repeat_buying"
)

// Strings converts a triggered-rule list for embedding into a Signal.
func Strings(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = string(r)
	}
	return out
}
