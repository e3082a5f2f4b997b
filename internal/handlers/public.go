// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the pin studio: the HTML
// page and the JSON API its script talks to.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pinstudio/internal/render"
)

// Public serves the browser-facing page.
type Public struct {
	renderer *render.Renderer
}

// NewPublic creates the page handler group.
func NewPublic(renderer *render.Renderer) *Public {
	return &Public{renderer: renderer}
}

// Index renders the pin generation form.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "index", render.NewPageData("Create Pinterest pins"))
}

// Pinger checks a dependency for the health endpoint.
type Pinger func(ctx context.Context) error

// Health returns a JSON health check. When a pinger is configured (the
// Valkey job store) it must answer within two seconds.
func Health(ping Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
