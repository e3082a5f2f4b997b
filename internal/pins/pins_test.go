// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"context"
	"sync"

	"pinstudio/internal/ai"
)

// fakeModel implements Model for tests. Nil funcs return empty results.
type fakeModel struct {
	mu       sync.Mutex
	generate func(prompt string, jsonMode bool) (string, error)
	parts    func(prompt string) ([]ai.Part, error)

	generateCalls []string
	partsCalls    []string
}

func (m *fakeModel) Generate(_ context.Context, prompt string, jsonMode bool) (string, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, prompt)
	m.mu.Unlock()
	if m.generate == nil {
		return "", nil
	}
	return m.generate(prompt, jsonMode)
}

func (m *fakeModel) GenerateParts(_ context.Context, prompt string, _ []string) ([]ai.Part, error) {
	m.mu.Lock()
	m.partsCalls = append(m.partsCalls, prompt)
	m.mu.Unlock()
	if m.parts == nil {
		return nil, nil
	}
	return m.parts(prompt)
}

func (m *fakeModel) calls() (generate, parts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.generateCalls), len(m.partsCalls)
}

// imagePart returns a response with one inline PNG part.
func imagePart(data string) []ai.Part {
	return []ai.Part{
		{Text: "Here is your image"},
		{InlineData: &ai.InlineData{MimeType: "image/png", Data: data}},
	}
}
