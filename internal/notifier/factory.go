package notifier

import (
	"fmt"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/notifier/telegram"
	"github.com/quantlab/flowdesk/internal/notifier/webhook"
)

// BuildRegistry constructs every enabled notifier from configuration.
// Disabled entries are skipped silently; a misconfigured enabled entry fails
// the whole build so operators notice at startup, not at first alert.
func BuildRegistry(configs map[string]config.NotifierConfig) (*Registry, error) {
	reg := NewRegistry()

	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		var (
			n   Notifier
			err error
		)
		switch cfg.Type {
		case "telegram":
			n, err = telegram.New(name, cfg.BotToken, cfg.ChatID)
		case "webhook":
			n, err = webhook.New(name, cfg.URL, cfg.Headers)
		default:
			err = fmt.Errorf("unknown notifier type %q", cfg.Type)
		}
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		if err := reg.Register(n); err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
	}

	return reg, nil
}
