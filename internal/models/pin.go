// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models holds the domain types shared across the pin generator.
package models

import (
	"errors"
	"regexp"
	"strings"
)

// Style is the creative style a batch of pins is rendered in.
type Style string

const (
	StyleStockPhoto      Style = "Stock Photo"
	StyleCinematic       Style = "Cinematic"
	StyleIllustration    Style = "Illustration"
	StyleVintageFilm     Style = "Vintage Film"
	StyleMinimalist      Style = "Minimalist"
	StyleFoodPhotography Style = "Food Photography"
)

// Styles lists every supported style in display order.
var Styles = []Style{
	StyleStockPhoto,
	StyleCinematic,
	StyleIllustration,
	StyleVintageFilm,
	StyleMinimalist,
	StyleFoodPhotography,
}

// Typography is the font character used for overlay text.
type Typography string

const (
	TypographyElegantSerif  Typography = "Elegant Serif"
	TypographyBoldSansSerif Typography = "Bold Sans-Serif"
	TypographyPlayfulScript Typography = "Playful Script"
	TypographyMinimalist    Typography = "Minimalist"
)

// Typographies lists every supported typography in display order.
var Typographies = []Typography{
	TypographyElegantSerif,
	TypographyBoldSansSerif,
	TypographyPlayfulScript,
	TypographyMinimalist,
}

const (
	DefaultStyle      = StyleStockPhoto
	DefaultTypography = TypographyBoldSansSerif
)

// Pin is one generated visual artifact. URL is either a remote URL or an
// embedded data URI; both can be used directly as an image source.
type Pin struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// GenerationRequest is the input bundle for one generate call.
type GenerationRequest struct {
	Topic       string     `json:"topic"`
	URL         string     `json:"url"`
	Style       Style      `json:"style"`
	OverlayText string     `json:"overlay_text"`
	Website     string     `json:"website"`
	Typography  Typography `json:"typography"`
	BrandColor  string     `json:"brand_color"`
}

var (
	ErrEmptyTopic      = errors.New("a topic or a URL is required")
	ErrInvalidHexColor = errors.New("brand color must be a hex code such as #E11D48")
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #RGB or #RRGGBB color code.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Normalize trims every field and fills in the default style and typography.
func (r *GenerationRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.URL = strings.TrimSpace(r.URL)
	r.OverlayText = strings.TrimSpace(r.OverlayText)
	r.Website = strings.TrimSpace(r.Website)
	r.BrandColor = strings.TrimSpace(r.BrandColor)
	r.Style = Style(strings.TrimSpace(string(r.Style)))
	r.Typography = Typography(strings.TrimSpace(string(r.Typography)))
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.Typography == "" {
		r.Typography = DefaultTypography
	}
}

// Validate checks the request can be turned into prompts.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" && strings.TrimSpace(r.URL) == "" {
		return ErrEmptyTopic
	}
	if r.BrandColor != "" && !IsHexColor(r.BrandColor) {
		return ErrInvalidHexColor
	}
	return nil
}
