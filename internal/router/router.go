// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the pin
// studio: the page, its static assets and the JSON API.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pinstudio/internal/handlers"
	"pinstudio/internal/middleware"
)

// Deps holds everything the router mounts.
type Deps struct {
	Public  *handlers.Public
	API     *handlers.API
	Health  http.HandlerFunc
	Static  fs.FS                   // contents served under /static/
	Limiter *middleware.RateLimiter // applied to POST /api/generations; nil disables
	Secure  bool                    // mark the client cookie Secure (behind TLS)
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. ClientID runs before the
	// logger so request logs carry the client.
	r.Use(middleware.Recoverer)
	r.Use(middleware.ClientID(d.Secure))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", d.Health)

	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(d.Static)))
	}

	r.Get("/", d.Public.Index)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.Limiter != nil {
				r.Use(d.Limiter.Middleware)
			}
			r.Post("/generations", d.API.CreateGeneration)
		})
		r.Get("/generations/{id}", d.API.GetGeneration)
		r.Post("/brand-colors", d.API.BrandColors)
	})

	return r
}
