// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"pinstudio/internal/models"
	"pinstudio/internal/prompt"
)

// Ideas asks the model for short textual pin concepts.
type Ideas struct {
	model Model
}

// NewIdeas creates an idea generator backed by model.
func NewIdeas(model Model) *Ideas {
	return &Ideas{model: model}
}

// Generate returns up to prompt.IdeaCount concepts for the topic and URL.
func (g *Ideas) Generate(ctx context.Context, topic, url string, style models.Style) ([]string, error) {
	text, err := g.model.Generate(ctx, prompt.Ideas(topic, url, style), true)
	if err != nil {
		return nil, fmt.Errorf("pin ideas: %w", err)
	}

	concepts, ok := parseConcepts(text)
	if !ok {
		slog.Warn("failed to parse pin ideas", "response", truncate(text, 500))
		return nil, ErrInvalidModelOutput
	}
	return concepts, nil
}

// parseConcepts validates the idea response. Only a non-empty JSON array
// whose kept elements are all strings is accepted; anything else is
// rejected rather than coerced. Extra elements beyond IdeaCount are dropped
// unread.
func parseConcepts(text string) ([]string, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}
	if len(raw) > prompt.IdeaCount {
		raw = raw[:prompt.IdeaCount]
	}

	concepts := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if len(r) == 0 || r[0] != '"' {
			return nil, false
		}
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, false
		}
		concepts = append(concepts, s)
	}
	return concepts, true
}

// truncate cuts a string to maxLen bytes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
