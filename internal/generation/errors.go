// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"strings"

	"pinstudio/internal/ai"
)

const (
	msgInvalidKey = "The API key is invalid or lacks permissions. Please check your setup."
	msgUnexpected = "An unexpected error occurred. Please try again."
	msgCancelled  = "The generation was cancelled."
)

// UserMessage maps a generation error to the text shown in the browser.
// A missing key shows the configuration message as is, invalid credentials
// get a fixed hint, and other errors show their message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return msgCancelled
	}
	if errors.Is(err, ai.ErrConfiguration) {
		return ai.ErrConfiguration.Error()
	}

	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		return msgUnexpected
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "api key not valid") || strings.Contains(lower, "permission_denied") {
		return msgInvalidKey
	}
	return msg
}
