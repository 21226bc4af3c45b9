package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var _ Notifier = (*WebhookClient)(nil)

// retryBackoff is the base delay between delivery attempts; attempt n waits
// n times this long.
const retryBackoff = 500 * time.Millisecond

// WebhookClient delivers events as JSON POSTs to a fixed endpoint.
type WebhookClient struct {
	endpoint   string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
}

// NewWebhookClient creates a WebhookClient for the given endpoint.
// timeout bounds a single request; maxRetries is the number of re-attempts
// after the first failure.
func NewWebhookClient(endpoint string, timeout time.Duration, maxRetries int) *WebhookClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &WebhookClient{
		endpoint:   endpoint,
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		// Already has a deadline; no need to wrap again.
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Notify implements Notifier by posting the event, retrying failed deliveries
// with a linear backoff until the context is done or attempts run out.
func (c *WebhookClient) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return fmt.Errorf("event delivery canceled: %w", ctx.Err())
			}
		}

		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("event delivery failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *WebhookClient) post(ctx context.Context, body []byte) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("webhook request timeout or canceled: %w", err)
		}
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain the body so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned non-2xx status: %d", resp.StatusCode)
	}
	return nil
}
