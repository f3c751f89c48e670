// Package webhook implements the notifier contract over a plain HTTP POST.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

// Webhook posts alerts as JSON to a configured endpoint.
type Webhook struct {
	name    string
	url     string
	headers map[string]string
	client  *http.Client
}

func New(name, url string, headers map[string]string) (*Webhook, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook %s: url is required", name)
	}
	return &Webhook{
		name:    name,
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (w *Webhook) Name() string { return w.name }

func (w *Webhook) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]any{
		"type": "alert",
		"text": text,
		"sent": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return core.WrapError(core.ErrNotifierFailed,
			fmt.Errorf("webhook %s returned %d", w.name, resp.StatusCode))
	}
	return nil
}
