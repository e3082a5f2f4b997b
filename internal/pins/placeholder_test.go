// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlaceholderSVG_WellFormed(t *testing.T) {
	svg := PlaceholderSVG(`Quotes "and" <tags> & ampersands`)

	dec := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("svg is not well-formed XML: %v\n%s", err, svg)
		}
	}
	if !strings.Contains(string(svg), `viewBox="0 0 720 1280"`) {
		t.Errorf("svg should be 9:16: %s", svg)
	}
}

func TestPlaceholderSVG_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("word ", 300) // 1500 characters
	svg := string(PlaceholderSVG(long))

	count := strings.Count(svg, "word")
	if count != 100 {
		t.Errorf("expected 100 words (500 characters) in the svg, got %d", count)
	}
	if !strings.Contains(svg, "…") {
		t.Error("truncated text should end with an ellipsis")
	}
}

func TestWrap(t *testing.T) {
	lines := wrap("the quick brown fox jumps over the lazy dog", 10)
	for _, l := range lines {
		if utf8.RuneCountInString(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrap lost words: %q", lines)
	}

	long := wrap("abcdefghijklmnopqrstuvwxyz", 10)
	if len(long) != 3 || long[0] != "abcdefghij" || long[2] != "uvwxyz" {
		t.Errorf("long word split: got %q", long)
	}
}
