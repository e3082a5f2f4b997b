// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vincent-petithory/dataurl"

	"pinstudio/internal/models"
	"pinstudio/internal/slug"
)

// maxSlugLen caps the prompt-derived part of an object key.
const maxSlugLen = 60

// ErrNotDataURI is returned by Archive when a pin does not carry inline data.
var ErrNotDataURI = errors.New("storage: pin url is not a data URI")

// extensions maps image media types to file extensions.
var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// Archive uploads the image embedded in pin.URL and returns its public URL.
func (c *Client) Archive(ctx context.Context, pin models.Pin) (string, error) {
	if !strings.HasPrefix(pin.URL, "data:") {
		return "", ErrNotDataURI
	}
	du, err := dataurl.DecodeString(pin.URL)
	if err != nil {
		return "", fmt.Errorf("archive decode %s: %w", pin.ID, err)
	}

	contentType := du.ContentType()
	key := ObjectKey(time.Now().UTC(), pin.Prompt, uuid.New(), contentType)
	if err := c.Upload(ctx, key, contentType, bytes.NewReader(du.Data), int64(len(du.Data))); err != nil {
		return "", err
	}
	return c.FileURL(key), nil
}

// ObjectKey builds pins/YYYY/MM/<slug>-<id>.<ext> for an archived image.
func ObjectKey(now time.Time, prompt string, id uuid.UUID, contentType string) string {
	s := slug.Truncate(slug.Generate(strings.Join(strings.Fields(prompt), " ")), maxSlugLen)
	if s == "" {
		s = "pin"
	}
	ext, ok := extensions[contentType]
	if !ok {
		ext = ".bin"
	}
	return fmt.Sprintf("pins/%d/%02d/%s-%s%s", now.Year(), now.Month(), s, id, ext)
}
