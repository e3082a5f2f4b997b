// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pins turns a generation request into Pinterest pin images: it asks
// the model for concepts, produces one image per concept in parallel and
// extracts brand palettes for the branding bar.
package pins

import (
	"context"
	"errors"

	"pinstudio/internal/ai"
)

// Model is the subset of the Gemini client used by this package.
type Model interface {
	// Generate returns the first text part of the response; "" when the
	// response carries no text.
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)

	// GenerateParts returns every response part so inline image data can be
	// found.
	GenerateParts(ctx context.Context, prompt string, modalities []string) ([]ai.Part, error)
}

var (
	// ErrInvalidModelOutput is returned when the idea response is not a
	// non-empty JSON array of strings.
	ErrInvalidModelOutput = errors.New("could not generate pin ideas: the model returned an invalid format")

	// ErrImageGenerationFailed is returned when neither the image nor the
	// description path yields renderable content.
	ErrImageGenerationFailed = errors.New("image generation failed to return an image")
)
