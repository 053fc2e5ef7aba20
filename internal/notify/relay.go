package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// RelaySender posts messages as JSON to an HTTP mail relay.
type RelaySender struct {
	client *http.Client
	url    string
}

// NewRelaySender builds a relay sender, auto-configuring an ID token client when needed.
func NewRelaySender(client *http.Client, relayURL string) (*RelaySender, error) {
	relayURL = strings.TrimRight(strings.TrimSpace(relayURL), "/")
	if relayURL == "" {
		return nil, errors.New("relay url must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), relayURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &RelaySender{client: client, url: relayURL}, nil
}

// Send posts msg to the relay and fails on any non-2xx answer.
func (s *RelaySender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if msg.Ref != "" {
		req.Header.Set("X-Request-ID", msg.Ref)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("relay error: %s", extractRelayError(resp))
	}
	return nil
}

func extractRelayError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return resp.Status
}

var _ Sender = (*RelaySender)(nil)
