// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"unicode/utf8"

	"pinstudio/internal/models"
)

// Validation limits for generation form fields.
const (
	maxTopicLen   = 500
	maxURLLen     = 2_048
	maxOverlayLen = 150
	maxWebsiteLen = 253
	maxOptionLen  = 100
)

// validateGeneration checks field lengths and returns the first error found.
// Required fields and color format are checked by the request itself.
func validateGeneration(req models.GenerationRequest) string {
	if utf8.RuneCountInString(req.Topic) > maxTopicLen {
		return "Topic is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(req.URL) > maxURLLen {
		return "URL is too long (max 2,048 characters)."
	}
	if utf8.RuneCountInString(req.OverlayText) > maxOverlayLen {
		return "Overlay text is too long (max 150 characters)."
	}
	if utf8.RuneCountInString(req.Website) > maxWebsiteLen {
		return "Website is too long (max 253 characters)."
	}
	if utf8.RuneCountInString(string(req.Style)) > maxOptionLen ||
		utf8.RuneCountInString(string(req.Typography)) > maxOptionLen {
		return "Style and typography names are too long (max 100 characters)."
	}
	return ""
}

// requestErrorMessage maps request validation errors to form messages.
func requestErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, models.ErrEmptyTopic):
		return "Enter a topic or an article URL.", true
	case errors.Is(err, models.ErrInvalidHexColor):
		return "Brand color must be a hex code like #E11D48.", true
	}
	return "", false
}
