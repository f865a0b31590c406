// Package chat relays customer chat messages to the external
// workflow-automation webhook that runs the actual claim processing.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RelayRequest is the inbound chat payload, forwarded to the webhook
// verbatim. Files and history entries are opaque to this service.
type RelayRequest struct {
	Message string            `json:"message"`
	Files   []json.RawMessage `json:"files"`
	History []json.RawMessage `json:"history"`
}

// RelayResponse is what the handler returns to the widget: the resolved
// reply text plus the webhook's raw response body.
type RelayResponse struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// replyFields is the ordered list of field names the webhook may use for
// its reply text; the first non-empty one wins.
var replyFields = []string{"output", "message", "response", "text"}

const defaultReply = "Response received"

type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Relay forwards the message to the webhook and resolves the reply text.
func (c *Client) Relay(ctx context.Context, req RelayRequest) (*RelayResponse, error) {
	if req.Files == nil {
		req.Files = []json.RawMessage{}
	}
	if req.History == nil {
		req.History = []json.RawMessage{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("webhook request failed with status: %d", resp.StatusCode)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode webhook response: %w", err)
	}
	return &RelayResponse{Message: resolveReply(data), Data: data}, nil
}

func resolveReply(data map[string]any) string {
	for _, field := range replyFields {
		if s, ok := data[field].(string); ok && s != "" {
			return s
		}
	}
	return defaultReply
}
