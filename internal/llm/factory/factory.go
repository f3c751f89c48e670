package factory

import (
	"fmt"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/llm"
	"github.com/quantlab/flowdesk/internal/llm/claude"
	"github.com/quantlab/flowdesk/internal/llm/openai"
)

// New creates an LLM provider from configuration. An empty provider name
// means commentary is disabled; callers get nil and skip enrichment.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown LLM provider: %s", cfg.Provider))
	}
}
