// Package telegram implements the notifier contract over the Telegram Bot
// API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram sends alerts to one chat through one bot.
type Telegram struct {
	name     string
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// New creates a Telegram notifier. The name distinguishes multiple bot/chat
// pairs in the registry (for example telegram_scalps vs telegram_main).
func New(name, botToken, chatID string) (*Telegram, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram %s: bot_token is required", name)
	}
	if chatID == "" {
		return nil, fmt.Errorf("telegram %s: chat_id is required", name)
	}
	return &Telegram{
		name:     name,
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (t *Telegram) Name() string { return t.name }

func (t *Telegram) Send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	body, err := json.Marshal(map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return core.WrapError(core.ErrNotifierFailed,
			fmt.Errorf("telegram API status %d: %v", resp.StatusCode, result))
	}
	return nil
}
