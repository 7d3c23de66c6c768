package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thca-multistore/backend/internal/domain/notification"
)

const (
	defaultBaseURL  = "https://api.resend.com"
	maxResponseSize = 1 * 1024 * 1024 // 1MB
)

// ResendConfig holds Resend API settings.
type ResendConfig struct {
	APIKey string
	// From is the sender address for all outgoing mail.
	From string
	// BaseURL overrides the API endpoint, used in tests.
	BaseURL string
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int
}

// Validate checks that the configuration is usable.
func (c *ResendConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("resend: API key is required")
	}
	if c.From == "" {
		return errors.New("resend: from address is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
	return nil
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	config     ResendConfig
	httpClient *http.Client
}

// NewResendClient creates a Resend client with the given configuration.
func NewResendClient(config ResendConfig) (*ResendClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ResendClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send delivers the message and returns the Resend message id.
func (c *ResendClient) Send(ctx context.Context, msg notification.Message) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.config.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("resend: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("resend: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("resend: api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("resend: failed to parse response: %w", err)
	}
	return result.ID, nil
}

var _ notification.Sender = (*ResendClient)(nil)
