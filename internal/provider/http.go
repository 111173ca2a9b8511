package provider

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPTransport posts deliveries to a provider endpoint as JSON.
type HTTPTransport struct {
	client *resty.Client
	url    string
}

// NewHTTPTransport creates a transport for the given provider endpoint.
// The timeout bounds the whole request; expiry surfaces as a transport
// error, not a status code.
func NewHTTPTransport(url string, timeout time.Duration) *HTTPTransport {
	client := resty.New().SetTimeout(timeout)
	return &HTTPTransport{client: client, url: url}
}

// Deliver submits the message to the provider and returns its status code.
// A transport failure is returned as the client error itself; callers
// render it to users, so no internal context is prepended.
func (t *HTTPTransport) Deliver(ctx context.Context, d Delivery) (int, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"message_id": d.MessageID,
			"type":       d.MsgType,
			"from":       d.From,
			"to":         d.To,
			"body":       d.Body,
		}).
		Post(t.url)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}
