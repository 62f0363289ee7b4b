// Package gemini calls the Google Generative Language REST API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"mail-signal-bot/internal/api"
	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/interfaces"
	"mail-signal-bot/internal/trace"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Client implements interfaces.Model against the Gemini generateContent API.
type Client struct {
	api   *api.Client
	model string
}

// Compile-time interface check
var _ interfaces.Model = (*Client)(nil)

// New builds a Gemini client for the given model name. The endpoint can be
// overridden with GEMINI_API_ENDPOINT for proxies. The key travels in a
// header, never in the URL, so request logging cannot echo it.
func New(model string) *Client {
	endpoint := defaultEndpoint
	if ep := os.Getenv("GEMINI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	opts := []api.ClientOption{
		api.WithBaseURL(endpoint),
		api.WithTimeout(90 * time.Second),
		api.WithLogging(true),
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		opts = append(opts, api.WithHeader("x-goog-api-key", key))
	}
	return &Client{
		api:   api.NewClient(opts...),
		model: model,
	}
}

// GenerateJSON asks for a bare JSON object response.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, system, prompt, true)
}

// GenerateText asks for a free-text response.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, system, prompt, false)
}

func (c *Client) generate(ctx context.Context, system, prompt string, jsonOut bool) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	if os.Getenv("GEMINI_API_KEY") == "" {
		return "", &errs.ConfigError{Key: "GEMINI_API_KEY"}
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
	}
	if system != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": system}},
		}
	}
	if jsonOut {
		body["generationConfig"] = map[string]any{"responseMimeType": "application/json"}
	}

	path := fmt.Sprintf("/models/%s:generateContent", c.model)
	resp, err := c.api.PostJSON(ctx, path, body)
	if err != nil {
		return "", errs.External("gemini", "", err)
	}
	if !resp.OK() {
		return "", errs.External("gemini", "", fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(resp.Body), 512)))
	}

	var r struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return "", errs.External("gemini", "", fmt.Errorf("decode response: %w", err))
	}
	if len(r.Candidates) == 0 {
		return "", errs.External("gemini", "", errors.New("no candidates in response"))
	}

	var out strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	return strings.TrimSpace(out.String()), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
