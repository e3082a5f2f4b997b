// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the pin studio page.
// Each page template is paired with the shared base layout.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"pinstudio/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title             string              // Page title for <title> tag
	Styles            []models.Style      // Options for the style picker
	Typographies      []models.Typography // Options for the typography picker
	DefaultStyle      models.Style
	DefaultTypography models.Typography
	Data              map[string]any // Page-specific data
}

// NewPageData returns PageData pre-filled with the generation options.
func NewPageData(title string) *PageData {
	return &PageData{
		Title:             title,
		Styles:            models.Styles,
		Typographies:      models.Typographies,
		DefaultStyle:      models.DefaultStyle,
		DefaultTypography: models.DefaultTypography,
		Data:              map[string]any{},
	}
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. When devMode is true, pages show a development badge.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// isDev returns true when the app runs in development mode.
			"isDev": func() bool {
				return devMode
			},
			// optionID turns an option label into a DOM id fragment.
			"optionID": func(s string) string {
				return strings.ToLower(strings.NewReplacer(" ", "-", "/", "-").Replace(s))
			},
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		// Strip .html extension for the template name.
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders a full page. The template is executed into a buffer first so
// a failure never leaves a half-written response.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("template execution failed", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
