// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pinstudio/internal/generation"
	"pinstudio/internal/middleware"
	"pinstudio/internal/models"
	"pinstudio/internal/pins"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Generations starts and looks up pin generation jobs.
type Generations interface {
	Start(ctx context.Context, clientID string, req models.GenerationRequest) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
}

// BrandExtractor suggests a brand palette for a website.
type BrandExtractor interface {
	Extract(ctx context.Context, website string) []string
}

// API groups the JSON endpoints used by the page script.
type API struct {
	generations Generations
	brand       BrandExtractor
}

// NewAPI creates the JSON API handler group.
func NewAPI(generations Generations, brand BrandExtractor) *API {
	return &API{generations: generations, brand: brand}
}

// createGenerationResponse is returned when a job is accepted.
type createGenerationResponse struct {
	ID     string           `json:"id"`
	Status models.JobStatus `json:"status"`
}

// CreateGeneration accepts a GenerationRequest and starts a background job.
// Any previous job of the same client is superseded.
func (a *API) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateGeneration(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	job, err := a.generations.Start(r.Context(), middleware.ClientIDFromCtx(r.Context()), req)
	if err != nil {
		if msg, ok := requestErrorMessage(err); ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		slog.Error("failed to start generation", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not start the generation. Please try again.")
		return
	}

	slog.Info("generation started", "job", job.ID, "client", job.ClientID, "style", req.Style)
	writeJSON(w, http.StatusAccepted, createGenerationResponse{ID: job.ID.String(), Status: job.Status})
}

// GetGeneration returns the current state of a job. Jobs are only visible
// to the client that started them.
func (a *API) GetGeneration(w http.ResponseWriter, r *http.Request) {
	job, err := a.generations.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, generation.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Generation not found.")
		return
	}
	if err != nil {
		slog.Error("failed to load generation", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the generation.")
		return
	}
	if job.ClientID != middleware.ClientIDFromCtx(r.Context()) {
		writeError(w, http.StatusNotFound, "Generation not found.")
		return
	}

	if job.Pins == nil {
		job.Pins = []models.Pin{}
	}
	writeJSON(w, http.StatusOK, job)
}

type brandColorsRequest struct {
	Website string `json:"website"`
}

type brandColorsResponse struct {
	Colors []string `json:"colors"`
}

// BrandColors suggests a palette for a website. Inputs that do not look
// like a domain get an empty palette without calling the model.
func (a *API) BrandColors(w http.ResponseWriter, r *http.Request) {
	var req brandColorsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	website := strings.TrimSpace(req.Website)
	if len(website) > maxWebsiteLen || !pins.LooksLikeDomain(strings.ToLower(website)) {
		writeJSON(w, http.StatusOK, brandColorsResponse{Colors: []string{}})
		return
	}

	writeJSON(w, http.StatusOK, brandColorsResponse{Colors: a.brand.Extract(r.Context(), website)})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
