// Package alert renders emitted signals into the Markdown messages the
// notifiers deliver. Each strategy kind gets its own depth: scalps are one
// line, day trades a short block, swings the full picture with optional LLM
// commentary appended.
package alert

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/llm"
)

const commentarySystemPrompt = "You are a desk analyst summarizing unusual options flow. " +
	"Given one swing signal, write two sentences on what the positioning implies. " +
	"No advice, no hedging language, no preamble."

// Formatter renders signals. The provider is optional; a nil provider means
// swing alerts go out without commentary.
type Formatter struct {
	provider llm.Provider
	log      *zap.Logger
}

func NewFormatter(provider llm.Provider, log *zap.Logger) *Formatter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Formatter{provider: provider, log: log}
}

// Format renders one signal at the depth its kind calls for.
func (f *Formatter) Format(ctx context.Context, sig core.Signal) string {
	switch sig.Kind {
	case core.KindScalp:
		return formatShort(sig)
	case core.KindSwing:
		return f.formatDeepDive(ctx, sig)
	default:
		return formatMedium(sig)
	}
}

// formatShort is the single-line scalp format: everything a fast reader
// needs, nothing else.
func formatShort(sig core.Signal) string {
	right := "C"
	if sig.Event.Right == core.RightPut {
		right = "P"
	}
	return fmt.Sprintf("%s *%s* SCALP $%s%s | %.1f/10 | $%s",
		directionEmoji(sig.Direction),
		sig.Ticker,
		formatStrike(sig.Event.Strike),
		right,
		sig.Strength,
		formatNotional(sig.Event.Notional))
}

func formatMedium(sig core.Signal) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s* — %s %s\n",
		directionEmoji(sig.Direction), sig.Ticker, sig.Kind, sig.Direction)
	fmt.Fprintf(&sb, "$%s %s exp %s (%dd)\n",
		formatStrike(sig.Event.Strike), sig.Event.Right,
		sig.Event.Expiry.Format("2006-01-02"), sig.Event.DTE())
	fmt.Fprintf(&sb, "Premium: $%s | Strength: %.1f/10\n",
		formatNotional(sig.Event.Notional), sig.Strength)
	if len(sig.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s", strings.Join(sig.Tags, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) formatDeepDive(ctx context.Context, sig core.Signal) string {
	var sb strings.Builder
	sb.WriteString(formatMedium(sig))
	fmt.Fprintf(&sb, "\nVolume %d vs OI %d | RVOL %.2f | daily trend %s",
		sig.Event.Volume, sig.Event.OpenInterest, sig.Context.RVOL, sig.Context.DailyTrend)
	if len(sig.Rules) > 0 {
		fmt.Fprintf(&sb, "\nRules: %s", strings.Join(sig.Rules, ", "))
	}

	if commentary := f.commentary(ctx, sig); commentary != "" {
		sb.WriteString("\n\n_" + commentary + "_")
	}
	return sb.String()
}

func (f *Formatter) commentary(ctx context.Context, sig core.Signal) string {
	if f.provider == nil {
		return ""
	}

	prompt := fmt.Sprintf("%s %s $%s %s exp %s, $%s premium, strength %.1f, tags %s",
		sig.Ticker, sig.Direction, formatStrike(sig.Event.Strike), sig.Event.Right,
		sig.Event.Expiry.Format("2006-01-02"), formatNotional(sig.Event.Notional),
		sig.Strength, strings.Join(sig.Tags, ","))

	resp, err := f.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: commentarySystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:    256,
	})
	if err != nil {
		f.log.Warn("alert commentary skipped",
			zap.String("signal", sig.ID),
			zap.Error(err))
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

func directionEmoji(d core.Direction) string {
	if d == core.Bearish {
		return "🔴"
	}
	return "🟢"
}

func formatStrike(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// formatNotional renders dollar amounts the way traders read them: 185K, 1.2M.
func formatNotional(v float64) string {
	switch {
	case v >= 1_000_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v/1_000_000), ".0") + "M"
	case v >= 1_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v/1_000), ".0") + "K"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
