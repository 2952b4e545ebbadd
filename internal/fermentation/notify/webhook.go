package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Channel delivers rendered content.
type Channel interface {
	Name() string
	Send(ctx context.Context, content string) error
}

// Slack-compatible incoming-webhook body; most chat tools accept it.
type webhookPayload struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
}

const defaultWebhookUsername = "Fermentation Advisor"

// WebhookChannel posts advisories to a chat incoming-webhook endpoint.
type WebhookChannel struct {
	url      string
	username string
	client   *retryablehttp.Client
}

// WebhookOption configures the webhook channel.
type WebhookOption func(*WebhookChannel)

// WithRetryMax overrides the number of delivery retries.
func WithRetryMax(n int) WebhookOption {
	return func(ch *WebhookChannel) {
		if n >= 0 {
			ch.client.RetryMax = n
		}
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(min, max time.Duration) WebhookOption {
	return func(ch *WebhookChannel) {
		if min > 0 && max >= min {
			ch.client.RetryWaitMin = min
			ch.client.RetryWaitMax = max
		}
	}
}

// WithUsername sets the sender name shown by the chat tool.
func WithUsername(name string) WebhookOption {
	return func(ch *WebhookChannel) {
		ch.username = name
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(ch *WebhookChannel) {
		if client != nil {
			ch.client.HTTPClient = client
		}
	}
}

// NewWebhookChannel constructs a webhook channel.
func NewWebhookChannel(url string, opts ...WebhookOption) (*WebhookChannel, error) {
	if url == "" {
		return nil, errors.New("webhook channel: empty url")
	}
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3
	client.HTTPClient.Timeout = 10 * time.Second
	channel := &WebhookChannel{
		url:      url,
		username: defaultWebhookUsername,
		client:   client,
	}
	for _, opt := range opts {
		opt(channel)
	}
	return channel, nil
}

// Name identifies the channel in metrics.
func (w *WebhookChannel) Name() string { return "webhook" }

// Send posts the rendered advisory. 5xx and transport errors are retried.
func (w *WebhookChannel) Send(ctx context.Context, content string) error {
	if w == nil || w.url == "" {
		return errors.New("webhook channel: empty url")
	}
	body, err := json.Marshal(webhookPayload{Text: content, Username: w.username})
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook channel: unexpected status %d", resp.StatusCode)
	}
	return nil
}
