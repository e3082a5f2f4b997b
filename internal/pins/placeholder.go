// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	placeholderWidth    = 720
	placeholderHeight   = 1280
	placeholderMaxChars = 500
	placeholderLineLen  = 34
	placeholderFontSize = 28
	placeholderLeading  = 42
)

// PlaceholderSVG renders a 9:16 vector graphic that shows description as
// wrapped text. The description is cut to 500 characters.
func PlaceholderSVG(description string) []byte {
	text := strings.Join(strings.Fields(description), " ")
	if r := []rune(text); len(r) > placeholderMaxChars {
		text = string(r[:placeholderMaxChars]) + "…"
	}
	lines := wrap(text, placeholderLineLen)

	// Vertically centre the text block.
	blockHeight := len(lines) * placeholderLeading
	y := (placeholderHeight-blockHeight)/2 + placeholderFontSize

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		placeholderWidth, placeholderHeight, placeholderWidth, placeholderHeight)
	b.WriteString(`<defs><linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">`)
	b.WriteString(`<stop offset="0%" stop-color="#1f2937"/><stop offset="100%" stop-color="#111827"/>`)
	b.WriteString(`</linearGradient></defs>`)
	b.WriteString(`<rect width="100%" height="100%" fill="url(#bg)"/>`)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="Helvetica, Arial, sans-serif" font-size="%d" fill="#f3f4f6" text-anchor="middle">`,
		placeholderWidth/2, y, placeholderFontSize)
	for i, line := range lines {
		dy := 0
		if i > 0 {
			dy = placeholderLeading
		}
		fmt.Fprintf(&b, `<tspan x="%d" dy="%d">`, placeholderWidth/2, dy)
		xml.EscapeText(&b, []byte(line))
		b.WriteString(`</tspan>`)
	}
	b.WriteString(`</text></svg>`)
	return []byte(b.String())
}

// PlaceholderDataURI wraps PlaceholderSVG in a base64 data URI.
func PlaceholderDataURI(description string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(PlaceholderSVG(description))
}

// wrap breaks text into lines of at most width runes on word boundaries.
// Words longer than width are split.
func wrap(text string, width int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append([]rune(nil), w...)
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = append([]rune(nil), w...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
