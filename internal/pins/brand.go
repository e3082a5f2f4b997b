// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"pinstudio/internal/models"
	"pinstudio/internal/prompt"
)

// PaletteSize is the maximum number of colors in a brand palette.
const PaletteSize = 3

// DefaultPaletteTTL is how long an extracted palette is reused for a URL.
const DefaultPaletteTTL = time.Hour

// FallbackPalette is returned whenever extraction fails.
func FallbackPalette() []string {
	return []string{"#121212", "#FFFFFF", "#E11D48"}
}

// domainLike matches inputs that look like a host name, e.g. "shop.example.com".
var domainLike = regexp.MustCompile(`([a-z0-9]+\.)?[a-z0-9]+\.[a-z]+`)

// LooksLikeDomain reports whether website is worth sending for extraction.
func LooksLikeDomain(website string) bool {
	return website != "" && domainLike.MatchString(website)
}

// NormalizeURL returns website as a fully qualified URL, prefixing https://
// when no http or https scheme is given.
func NormalizeURL(website string) string {
	website = strings.TrimSpace(website)
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		return website
	}
	return "https://" + website
}

// Brand infers brand palettes from website names. Extraction never fails:
// any error yields FallbackPalette.
type Brand struct {
	model Model
	cache *cache.Cache
}

// NewBrand creates a brand color extractor. Successful palettes are kept
// for ttl per normalised URL; a zero ttl disables caching.
func NewBrand(model Model, ttl time.Duration) *Brand {
	b := &Brand{model: model}
	if ttl > 0 {
		b.cache = cache.New(ttl, 2*ttl)
	}
	return b
}

// Extract returns up to PaletteSize hex colors for website.
func (b *Brand) Extract(ctx context.Context, website string) []string {
	fullURL := NormalizeURL(website)

	if b.cache != nil {
		if v, ok := b.cache.Get(fullURL); ok {
			return append([]string(nil), v.([]string)...)
		}
	}

	text, err := b.model.Generate(ctx, prompt.BrandColors(fullURL, FallbackPalette()), true)
	if err != nil {
		slog.Warn("could not extract brand colors, using default", "url", fullURL, "error", err)
		return FallbackPalette()
	}

	colors, ok := parsePalette(text)
	if !ok {
		slog.Warn("invalid brand color response, using default", "url", fullURL, "response", truncate(text, 200))
		return FallbackPalette()
	}

	if b.cache != nil {
		b.cache.SetDefault(fullURL, colors)
	}
	return append([]string(nil), colors...)
}

// parsePalette accepts only a non-empty JSON array of hex color strings.
func parsePalette(text string) ([]string, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil || len(raw) == 0 {
		return nil, false
	}
	if len(raw) > PaletteSize {
		raw = raw[:PaletteSize]
	}

	colors := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err != nil || !models.IsHexColor(strings.TrimSpace(s)) {
			return nil, false
		}
		colors = append(colors, strings.TrimSpace(s))
	}
	return colors, true
}
