// Package ai wraps the remote messages endpoint that performs document text
// extraction and contract analysis. The response is modelled as a tagged
// list of content blocks; anything without a text block is a contract
// violation converted into a typed error.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
)

const (
	apiVersion       = "2023-06-01"
	extractionPrompt = "Extract contract text."
)

// ContentBlock is one element of a message payload or response.
type ContentBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *DocumentSource `json:"source,omitempty"`
}

// DocumentSource carries base64 document bytes with their declared media type.
type DocumentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []ContentBlock `json:"content"`
}

// Config configures the remote client.
type Config struct {
	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client issues requests against the messages endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ExtractDocument asks the model to return the text of a base64-encoded
// document. An empty or missing text block is a remote contract violation,
// not a valid "no text" result.
func (c *Client) ExtractDocument(ctx context.Context, mediaType string, data []byte) (string, error) {
	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []message{{
			Role: "user",
			Content: []ContentBlock{
				{
					Type: "document",
					Source: &DocumentSource{
						Type:      "base64",
						MediaType: mediaType,
						Data:      base64.StdEncoding.EncodeToString(data),
					},
				},
				{Type: "text", Text: extractionPrompt},
			},
		}},
	}
	return c.send(ctx, req)
}

// Complete sends a plain text prompt and returns the first text block.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []message{{
			Role:    "user",
			Content: []ContentBlock{{Type: "text", Text: prompt}},
		}},
	}
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, payload messagesRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode analysis request")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analysis request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "analysis service unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "failed to read analysis response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", appErrors.Wrap(
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 256)),
			appErrors.ErrRemoteService.Code, appErrors.ErrRemoteService.Status,
			"analysis service rejected the request",
		)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrRemoteService.Code, appErrors.ErrRemoteService.Status, "analysis service returned invalid JSON")
	}

	text, ok := firstText(parsed.Content)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrRemoteService, "analysis response contains no text block")
	}
	return text, nil
}

func firstText(blocks []ContentBlock) (string, bool) {
	for _, block := range blocks {
		if block.Type == "text" && block.Text != "" {
			return block.Text, true
		}
	}
	return "", false
}

func truncate(raw []byte, max int) string {
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
