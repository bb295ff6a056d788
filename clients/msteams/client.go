// Package msteams implements the reply path for the generic Teams-style
// webhook connector: activities are posted back to the chat service's
// conversation endpoint.
package msteams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type TeamsMessenger struct {
	httpClient *http.Client
	serviceURL string
	apiToken   string
}

func NewTeamsMessenger(httpClient *http.Client, serviceURL, apiToken string) *TeamsMessenger {
	return &TeamsMessenger{
		httpClient: httpClient,
		serviceURL: serviceURL,
		apiToken:   apiToken,
	}
}

type outboundActivity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PostMessage sends a plain text message activity to the conversation
func (m *TeamsMessenger) PostMessage(ctx context.Context, channelID, text string) error {
	payload, err := json.Marshal(outboundActivity{Type: "message", Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode activity: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v3/conversations/%s/activities", m.serviceURL, url.PathEscape(channelID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create activity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat service returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
