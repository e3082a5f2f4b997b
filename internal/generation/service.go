// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generation runs pin batches in the background and tracks them as
// jobs the browser can poll. Each client has at most one current generation:
// starting a new one cancels the previous job, and any pins that job still
// produces are discarded.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pinstudio/internal/cache"
	"pinstudio/internal/models"
	"pinstudio/internal/pins"
)

// ErrNotFound is returned by Get for unknown or expired jobs.
var ErrNotFound = errors.New("generation: job not found")

// Generator produces one batch of pins, reporting progress as it goes.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error)
}

// JobStore persists jobs between polls. Load returns cache.ErrMiss for
// unknown ids.
type JobStore interface {
	Save(ctx context.Context, job *models.Job) error
	Load(ctx context.Context, id string) (*models.Job, error)
}

// Archiver uploads a pin image and returns its remote URL.
type Archiver interface {
	Archive(ctx context.Context, pin models.Pin) (string, error)
}

// run is the in-flight generation of one client.
type run struct {
	id     uuid.UUID
	cancel context.CancelFunc
}

// Service starts generations and answers job lookups.
type Service struct {
	gen      Generator
	store    JobStore
	archiver Archiver
	now      func() time.Time

	mu      sync.Mutex
	current map[string]run
	wg      sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithArchiver uploads finished pins through a. A nil archiver disables it.
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithClock overrides the clock used for job timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a generation service.
func NewService(gen Generator, store JobStore, opts ...Option) *Service {
	s := &Service{
		gen:     gen,
		store:   store,
		now:     time.Now,
		current: make(map[string]run),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates req, records a running job and launches the batch in the
// background. Any generation still running for clientID is cancelled and
// will finish as superseded. The returned job is a snapshot.
func (s *Service) Start(ctx context.Context, clientID string, req models.GenerationRequest) (*models.Job, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &models.Job{
		ID:        uuid.New(),
		ClientID:  clientID,
		Status:    models.JobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("generation start: %w", err)
	}

	// The batch outlives the request that started it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.mu.Lock()
	if prev, ok := s.current[clientID]; ok {
		prev.cancel()
		slog.Info("generation superseded", "client", clientID, "job", prev.id, "by", job.ID)
	}
	s.current[clientID] = run{id: job.ID, cancel: cancel}
	s.wg.Add(1)
	s.mu.Unlock()

	snapshot := *job
	go s.execute(runCtx, cancel, job, req)

	return &snapshot, nil
}

// Get returns the job with the given id.
func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	job, err := s.store.Load(ctx, id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("generation get: %w", err)
	}
	return job, nil
}

// Shutdown cancels every running generation and waits for them to record
// their final state, or for ctx to end.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, r := range s.current {
		r.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// execute runs one batch and stores every state change. Only this goroutine
// mutates job.
func (s *Service) execute(ctx context.Context, cancel context.CancelFunc, job *models.Job, req models.GenerationRequest) {
	defer s.wg.Done()
	defer cancel()

	start := time.Now()
	result, err := s.gen.Generate(ctx, req, func(message string) {
		job.Message = message
		s.save(job)
	})

	if err == nil && s.archiver != nil && s.isCurrent(job.ClientID, job.ID) {
		result = s.archive(ctx, result)
	}

	switch {
	case !s.release(job.ClientID, job.ID):
		job.Status = models.JobStatusSuperseded
		job.Pins = nil
		slog.Info("discarded superseded generation", "job", job.ID, "client", job.ClientID)
	case err != nil:
		job.Status = models.JobStatusFailed
		job.Error = UserMessage(err)
		slog.Error("generation failed", "job", job.ID, "client", job.ClientID, "error", err)
	default:
		job.Status = models.JobStatusDone
		job.Pins = result
		slog.Info("generation finished", "job", job.ID, "pins", len(result), "duration", time.Since(start))
	}
	s.save(job)
}

// archive replaces each pin's data URI with its uploaded URL. Failures keep
// the data URI.
func (s *Service) archive(ctx context.Context, result []models.Pin) []models.Pin {
	out := make([]models.Pin, len(result))
	for i, pin := range result {
		out[i] = pin
		url, err := s.archiver.Archive(ctx, pin)
		if err != nil {
			slog.Warn("pin archive failed, keeping inline image", "pin", pin.ID, "error", err)
			continue
		}
		out[i].URL = url
	}
	return out
}

func (s *Service) save(job *models.Job) {
	job.UpdatedAt = s.now().UTC()
	// Use a fresh context so the final state is recorded after cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Save(ctx, job); err != nil {
		slog.Error("failed to save job", "job", job.ID, "error", err)
	}
}

func (s *Service) isCurrent(clientID string, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.current[clientID]
	return ok && r.id == id
}

// release drops id as the client's current generation and reports whether
// it still was.
func (s *Service) release(clientID string, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.current[clientID]
	if !ok || r.id != id {
		return false
	}
	delete(s.current, clientID)
	return true
}
