// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai is a thin client for the Google Gemini generative-language REST
// API. It sends single-turn prompts, optionally constrained to JSON output,
// and exposes the raw response parts so callers can look for inline image data.
package ai

import (
	"errors"
	"fmt"
	"time"
)

// DefaultBaseURL is the public Gemini endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-1.5-flash"

// ImageModalities are the response modalities requested for image-bearing calls.
var ImageModalities = []string{"IMAGE", "TEXT"}

// ErrConfiguration is returned when the client has no API key. It is raised
// before any network activity.
var ErrConfiguration = errors.New("ai: Gemini API key is missing, set GEMINI_API_KEY in your environment")

// TransportError is returned when the endpoint answers with a non-2xx status.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}

// Config holds the credentials and settings for the Gemini client.
type Config struct {
	APIKey     string
	Model      string // text model, e.g. "gemini-1.5-flash"
	ModelImage string // image-capable model; falls back to Model when empty
	BaseURL    string

	// Timeout bounds each HTTP request. Zero means no client-side timeout;
	// callers still control cancellation through the context.
	Timeout time.Duration
}

// Part is one piece of candidate content. Exactly one of Text or InlineData
// is normally set.
type Part struct {
	Text       string
	InlineData *InlineData
}

// InlineData carries base64-encoded binary content as returned by the API.
type InlineData struct {
	MimeType string
	Data     string
}
