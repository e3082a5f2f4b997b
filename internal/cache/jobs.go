// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// jobs.go keeps generation jobs so the browser can poll for progress.
// Jobs live in Valkey when it is configured, so any replica can answer a
// poll; otherwise they live in process memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"pinstudio/internal/models"
)

const (
	// jobKeyPrefix is the Valkey key prefix for generation jobs.
	jobKeyPrefix = "job:"

	// DefaultJobTTL is how long a job stays readable after its last update.
	DefaultJobTTL = time.Hour
)

// ValkeyJobStore keeps jobs as JSON values in Valkey.
type ValkeyJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyJobStore creates a job store backed by the given Valkey client.
func NewValkeyJobStore(client *redis.Client, ttl time.Duration) *ValkeyJobStore {
	if ttl == 0 {
		ttl = DefaultJobTTL
	}
	return &ValkeyJobStore{client: client, ttl: ttl}
}

// Save writes the job, resetting its TTL.
func (s *ValkeyJobStore) Save(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("job marshal: %w", err)
	}
	if err := s.client.Set(ctx, jobKeyPrefix+job.ID.String(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("job save %s: %w", job.ID, err)
	}
	return nil
}

// Load reads a job. Returns ErrMiss if it does not exist or has expired.
func (s *ValkeyJobStore) Load(ctx context.Context, id string) (*models.Job, error) {
	data, err := s.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("job load %s: %w", id, err)
	}

	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		slog.Warn("corrupt job entry", "id", id, "error", err)
		return nil, ErrMiss
	}
	return &job, nil
}

// MemoryJobStore keeps jobs in process memory with expiry.
type MemoryJobStore struct {
	items *gocache.Cache
}

// NewMemoryJobStore creates an in-process job store.
func NewMemoryJobStore(ttl time.Duration) *MemoryJobStore {
	if ttl == 0 {
		ttl = DefaultJobTTL
	}
	return &MemoryJobStore{items: gocache.New(ttl, 10*time.Minute)}
}

// Save stores a copy of the job, resetting its TTL.
func (s *MemoryJobStore) Save(_ context.Context, job *models.Job) error {
	s.items.SetDefault(job.ID.String(), cloneJob(job))
	return nil
}

// Load returns a copy of the job or ErrMiss.
func (s *MemoryJobStore) Load(_ context.Context, id string) (*models.Job, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrMiss
	}
	return cloneJob(v.(*models.Job)), nil
}

// cloneJob copies a job so stored values are never shared with callers.
func cloneJob(j *models.Job) *models.Job {
	c := *j
	if j.Pins != nil {
		c.Pins = append([]models.Pin(nil), j.Pins...)
	}
	return &c
}
