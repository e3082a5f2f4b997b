// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the Gemini REST API
// (POST /v1beta/models/{model}:generateContent?key=...).
// It is immutable after construction and safe for concurrent use.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a Gemini client. It fails fast with ErrConfiguration when
// no API key is configured.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrConfiguration
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ModelImage == "" {
		cfg.ModelImage = cfg.Model
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Model returns the text model name.
func (c *Client) Model() string { return c.config.Model }

// Generate sends prompt as the only message content and returns the first
// text part of the first candidate. When jsonMode is set the API is asked to
// constrain its output to JSON. An unexpected response shape yields "" and a
// nil error; callers decide what missing text means.
func (c *Client) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if jsonMode {
		body.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json"}
	}

	result, err := c.do(ctx, c.config.Model, body)
	if err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 {
		slog.Debug("gemini: no candidates returned", "model", c.config.Model)
		return "", nil
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", nil
}

// GenerateParts sends an image-bearing request and returns every part of
// every candidate in order. modalities maps to
// generationConfig.responseModalities and is omitted when empty.
func (c *Client) GenerateParts(ctx context.Context, prompt string, modalities []string) ([]Part, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if len(modalities) > 0 {
		body.GenerationConfig = &geminiGenerationConfig{ResponseModalities: modalities}
	}

	result, err := c.do(ctx, c.config.ModelImage, body)
	if err != nil {
		return nil, err
	}

	var parts []Part
	for _, cand := range result.Candidates {
		for _, p := range cand.Content.Parts {
			part := Part{Text: p.Text}
			if p.InlineData != nil && p.InlineData.Data != "" {
				part.InlineData = &InlineData{MimeType: p.InlineData.MimeType, Data: p.InlineData.Data}
			}
			parts = append(parts, part)
		}
	}
	return parts, nil
}

// do performs one generateContent round trip. It is attempted exactly once.
func (c *Client) do(ctx context.Context, model string, body geminiRequest) (*geminiResponse, error) {
	if c == nil || c.config.APIKey == "" {
		return nil, ErrConfiguration
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, url.PathEscape(model), url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("gemini unmarshal: %w", err)
	}
	return &result, nil
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
