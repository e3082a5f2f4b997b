// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pinstudio/internal/ai"
	"pinstudio/internal/models"
	"pinstudio/internal/prompt"
)

// Images produces one image reference per concept.
type Images struct {
	model Model
}

// NewImages creates an image producer backed by model.
func NewImages(model Model) *Images {
	return &Images{model: model}
}

// Produce extends concept with overlay and branding directives and returns a
// displayable image reference. It first asks for inline image data and
// returns a data:image/... URI. When the model cannot return image data it
// asks for a plain-text description instead and returns an SVG placeholder
// embedding that text.
func (p *Images) Produce(ctx context.Context, concept, overlayText, website string, typography models.Typography, brandColor string) (string, error) {
	finalPrompt := prompt.Image(concept, overlayText, website, typography, brandColor)

	uri, primaryErr := p.inlineImage(ctx, finalPrompt)
	if primaryErr == nil && uri != "" {
		return uri, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if primaryErr != nil {
		slog.Warn("image generation unavailable, using placeholder", "error", primaryErr)
	} else {
		slog.Debug("no inline image data in response, using placeholder")
	}

	description, err := p.model.Generate(ctx, prompt.Description(finalPrompt), false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageGenerationFailed, errors.Join(primaryErr, err))
	}
	description = strings.TrimSpace(description)
	if description == "" {
		if primaryErr != nil {
			return "", fmt.Errorf("%w: %w", ErrImageGenerationFailed, primaryErr)
		}
		return "", ErrImageGenerationFailed
	}

	return PlaceholderDataURI(description), nil
}

// inlineImage scans every candidate part for inline binary data.
func (p *Images) inlineImage(ctx context.Context, finalPrompt string) (string, error) {
	parts, err := p.model.GenerateParts(ctx, prompt.ImageRequest(finalPrompt), ai.ImageModalities)
	if err != nil {
		return "", err
	}
	for _, part := range parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		mimeType := part.InlineData.MimeType
		if !strings.HasPrefix(mimeType, "image/") {
			mimeType = "image/png"
		}
		return "data:" + mimeType + ";base64," + part.InlineData.Data, nil
	}
	return "", nil
}
