// Package llm talks to an OpenAI-compatible chat completions endpoint with
// structured JSON output.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rpggio/focuslog/internal/domain/classify"
)

const temperature = 0.2

// ErrNoAPIKey is returned by NewClient when the configured key env var is empty.
var ErrNoAPIKey = errors.New("llm api key not set")

// Config selects the endpoint and model.
type Config struct {
	BaseURL   string
	Model     string
	APIKeyEnv string
	// APIKey takes precedence over APIKeyEnv when set.
	APIKey     string
	HTTPClient *http.Client
}

// Client implements classify.Classifier.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

var _ classify.Classifier = (*Client)(nil)

// NewClient builds a client, reading the API key from the environment when
// cfg.APIKey is empty.
func NewClient(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" && cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("llm base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:    cfg.Model,
		apiKey:   apiKey,
		http:     httpClient,
	}, nil
}

// Classify sends the prompt and returns the structured payload or refusal.
func (c *Client) Classify(ctx context.Context, p classify.Prompt) (*classify.Result, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature: temperature,
		ResponseFormat: &respFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   p.Schema.Name,
				Strict: true,
				Schema: p.Schema.Definition,
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseResponse(respBody)
}

func parseResponse(body []byte) (*classify.Result, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in response")
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return &classify.Result{Refusal: msg.Refusal}, nil
	}
	content := strings.TrimSpace(msg.Content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("response content is not JSON")
	}
	return &classify.Result{Payload: json.RawMessage(content)}, nil
}
