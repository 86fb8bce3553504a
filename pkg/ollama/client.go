// Package ollama wraps the Ollama API for optional vision-model frame
// descriptions. The pixel analyzers never depend on this; it exists so the
// CLI can attach a natural-language caption to a report when a model is
// available.
package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultTimeout bounds a single describe call when the caller's context has
// no deadline. Vision models on CPU can take minutes.
const DefaultTimeout = 300 * time.Second

// Description is the structured caption a vision model returns for a frame.
type Description struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
}

// NewClient creates a client for the Ollama server at the given URL. Any
// path component is stripped; only scheme and host are used.
func NewClient(ollamaURL string) (*Client, error) {
	parsed, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Client{client: api.NewClient(base, http.DefaultClient)}, nil
}

// Describe sends the frame to the model and returns its free-form caption.
func (c *Client) Describe(ctx context.Context, model, prompt, frameB64 string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	frameBytes, err := base64.StdEncoding.DecodeString(frameB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 frame: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(frameBytes)},
			},
		},
		Stream: &streamFalse,
	}

	var content string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	return content, nil
}

// DescribeStructured asks the model for a JSON caption and parses it. Model
// output that cannot be parsed degrades to a Description carrying the raw
// text rather than an error; caption quality issues should not fail a
// pipeline run.
func (c *Client) DescribeStructured(ctx context.Context, model, prompt, frameB64 string) (Description, error) {
	raw, err := c.Describe(ctx, model, prompt, frameB64)
	if err != nil {
		return Description{}, err
	}
	if raw == "" {
		return Description{}, fmt.Errorf("empty response from ollama")
	}
	return parseDescription(raw), nil
}

func parseDescription(raw string) Description {
	cleaned := sanitizeModelJSON(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return Description{Description: strings.TrimSpace(raw)}
	}

	var desc Description
	if err := json.Unmarshal([]byte(cleaned), &desc); err != nil {
		return Description{Description: strings.TrimSpace(raw)}
	}
	return desc
}

// sanitizeModelJSON removes code fences, comments and trailing commas that
// vision models habitually wrap around their JSON.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
