// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pinstudio/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, jobKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testJob() *models.Job {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Job{
		ID:        uuid.New(),
		ClientID:  "client-1",
		Status:    models.JobStatusDone,
		Message:   "Pins are ready!",
		Pins:      []models.Pin{{ID: "image-1-0", URL: "data:image/png;base64,AAAA", Prompt: "a sunset"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestValkeyJobStoreSaveAndLoad(t *testing.T) {
	client := testValkeyClient(t)
	store := NewValkeyJobStore(client, time.Minute)
	ctx := context.Background()

	job := testJob()

	// Miss.
	if _, err := store.Load(ctx, job.ID.String()); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, job.ID.String())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != job.ID || got.ClientID != job.ClientID || got.Status != job.Status {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, job)
	}
	if len(got.Pins) != 1 || got.Pins[0] != job.Pins[0] {
		t.Errorf("pins mismatch: got %+v", got.Pins)
	}
	if !got.CreatedAt.Equal(job.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, job.CreatedAt)
	}
}

func TestValkeyJobStoreSetsTTL(t *testing.T) {
	client := testValkeyClient(t)
	store := NewValkeyJobStore(client, time.Minute)
	ctx := context.Background()

	job := testJob()
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ttl, err := client.TTL(ctx, jobKeyPrefix+job.ID.String()).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected TTL in (0, 1m], got %v", ttl)
	}
}

func TestValkeyJobStoreCorruptEntry(t *testing.T) {
	client := testValkeyClient(t)
	store := NewValkeyJobStore(client, time.Minute)
	ctx := context.Background()

	id := uuid.NewString()
	client.Set(ctx, jobKeyPrefix+id, "{not json", time.Minute)

	if _, err := store.Load(ctx, id); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss for corrupt entry, got %v", err)
	}
}

func TestNewValkeyJobStoreDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	// TTL = 0 should use default.
	store := NewValkeyJobStore(client, 0)
	if store.ttl != DefaultJobTTL {
		t.Errorf("expected DefaultJobTTL (%v), got %v", DefaultJobTTL, store.ttl)
	}
}

func TestMemoryJobStoreSaveAndLoad(t *testing.T) {
	store := NewMemoryJobStore(time.Minute)
	ctx := context.Background()

	job := testJob()
	if _, err := store.Load(ctx, job.ID.String()); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, job.ID.String())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != job.ID || got.Status != job.Status || got.Message != job.Message {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestMemoryJobStoreReturnsCopies(t *testing.T) {
	store := NewMemoryJobStore(time.Minute)
	ctx := context.Background()

	job := testJob()
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the saved value must not leak into the store.
	job.Status = models.JobStatusFailed
	job.Pins[0].URL = "changed"

	got, _ := store.Load(ctx, job.ID.String())
	if got.Status != models.JobStatusDone {
		t.Errorf("stored status changed to %q", got.Status)
	}
	if got.Pins[0].URL == "changed" {
		t.Error("stored pins share memory with the caller")
	}

	// Mutating a loaded value must not leak either.
	got.Pins[0].URL = "changed again"
	again, _ := store.Load(ctx, job.ID.String())
	if again.Pins[0].URL == "changed again" {
		t.Error("loaded pins share memory with the store")
	}
}

func TestMemoryJobStoreExpiry(t *testing.T) {
	store := NewMemoryJobStore(20 * time.Millisecond)
	ctx := context.Background()

	job := testJob()
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	if _, err := store.Load(ctx, job.ID.String()); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after expiry, got %v", err)
	}
}
