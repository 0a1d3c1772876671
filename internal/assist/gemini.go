// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/litreview/pkg/types"
)

// geminiAPIBase is the Gemini generateContent endpoint prefix. Package-level
// var for test substitution; the model name and method are appended per request.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiBackend calls the Gemini API. Requests are single-shot with no
// retries; each request uses the next configured key in round-robin order.
type GeminiBackend struct {
	Model           string
	Keys            []string
	MaxOutputTokens int
	Client          *http.Client

	nextKey int
}

// NewGeminiBackend returns a backend for cfg, or an error when no API key is
// configured.
func NewGeminiBackend(cfg types.AssistConfig, client *http.Client) (*GeminiBackend, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("no Gemini API key configured (set gemini-api-key-1 in .secrets/)")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &GeminiBackend{
		Model:           model,
		Keys:            cfg.APIKeys,
		MaxOutputTokens: maxTokens,
		Client:          client,
	}, nil
}

// Gemini API JSON structures.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Generate sends one prompt to the Gemini API and returns the text reply.
func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if len(b.Keys) == 0 {
		return "", fmt.Errorf("no Gemini API key configured")
	}
	key := b.Keys[b.nextKey%len(b.Keys)]
	b.nextKey++

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{MaxOutputTokens: b.MaxOutputTokens},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiAPIBase, b.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	for _, cand := range gResp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("Gemini API returned empty content")
}
