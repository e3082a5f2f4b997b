// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"pinstudio/internal/ai"
	"pinstudio/internal/cache"
	"pinstudio/internal/models"
	"pinstudio/internal/pins"
)

// fakeGenerator runs fn for every batch. fn must call onProgress from the
// calling goroutine, as the orchestrator does.
type fakeGenerator struct {
	fn func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
	return g.fn(ctx, req, onProgress)
}

func readyPins(topic string) []models.Pin {
	return []models.Pin{
		{ID: "image-1-0", URL: "data:image/png;base64,AAAA", Prompt: topic + " one"},
		{ID: "image-1-1", URL: "data:image/png;base64,BBBB", Prompt: topic + " two"},
	}
}

func succeed(_ context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
	onProgress("Brainstorming stock photo pin ideas...")
	onProgress("Pins are ready!")
	return readyPins(req.Topic), nil
}

// waitFinished polls until the job leaves the running state.
func waitFinished(t *testing.T, svc *Service, id string) *models.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if job.IsFinished() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return nil
}

func newTestService(fn func(context.Context, models.GenerationRequest, pins.ProgressFunc) ([]models.Pin, error), opts ...Option) *Service {
	return NewService(&fakeGenerator{fn: fn}, cache.NewMemoryJobStore(time.Minute), opts...)
}

func TestStartCompletes(t *testing.T) {
	svc := newTestService(succeed)

	job, err := svc.Start(context.Background(), "client-1", models.GenerationRequest{Topic: "cozy bedroom"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if job.Status != models.JobStatusRunning {
		t.Errorf("initial status: got %q, want running", job.Status)
	}
	if job.ClientID != "client-1" {
		t.Errorf("ClientID: got %q", job.ClientID)
	}

	done := waitFinished(t, svc, job.ID.String())
	if done.Status != models.JobStatusDone {
		t.Fatalf("status: got %q, want done (error %q)", done.Status, done.Error)
	}
	if len(done.Pins) != 2 || done.Pins[0].Prompt != "cozy bedroom one" {
		t.Errorf("pins: got %+v", done.Pins)
	}
	if done.Message != "Pins are ready!" {
		t.Errorf("message: got %q", done.Message)
	}
	if done.Error != "" {
		t.Errorf("unexpected error text %q", done.Error)
	}
}

func TestStartNormalizesRequest(t *testing.T) {
	got := make(chan models.GenerationRequest, 1)
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		got <- req
		return nil, nil
	})

	if _, err := svc.Start(context.Background(), "c", models.GenerationRequest{Topic: "  tea  "}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	req := <-got
	if req.Topic != "tea" || req.Style != models.DefaultStyle || req.Typography != models.DefaultTypography {
		t.Errorf("request not normalized: %+v", req)
	}
}

func TestStartRejectsInvalidRequest(t *testing.T) {
	called := false
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		called = true
		return nil, nil
	})

	tests := []struct {
		name string
		req  models.GenerationRequest
		want error
	}{
		{name: "empty", req: models.GenerationRequest{}, want: models.ErrEmptyTopic},
		{name: "bad color", req: models.GenerationRequest{Topic: "t", BrandColor: "blue"}, want: models.ErrInvalidHexColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := svc.Start(context.Background(), "c", tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Start() error = %v, want %v", err, tt.want)
			}
			if job != nil {
				t.Errorf("expected no job, got %+v", job)
			}
		})
	}
	if called {
		t.Error("generator should not run for an invalid request")
	}
}

func TestStartFailureStoresUserMessage(t *testing.T) {
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		onProgress("Brainstorming stock photo pin ideas...")
		return nil, fmt.Errorf("pin ideas: %w", &ai.TransportError{
			StatusCode: 400,
			Body:       `{"error":{"message":"API key not valid. Please pass a valid API key."}}`,
		})
	})

	job, err := svc.Start(context.Background(), "c", models.GenerationRequest{Topic: "t"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := waitFinished(t, svc, job.ID.String())
	if done.Status != models.JobStatusFailed {
		t.Fatalf("status: got %q, want failed", done.Status)
	}
	if done.Error != msgInvalidKey {
		t.Errorf("error: got %q, want %q", done.Error, msgInvalidKey)
	}
	if len(done.Pins) != 0 {
		t.Errorf("failed job should carry no pins, got %d", len(done.Pins))
	}
}

func TestStartSupersedesPreviousGeneration(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		if req.Topic == "slow" {
			onProgress("Brainstorming stock photo pin ideas...")
			close(started)
			// Ignore cancellation so the late result must be discarded.
			<-release
			return readyPins(req.Topic), nil
		}
		return succeed(ctx, req, onProgress)
	})

	first, err := svc.Start(context.Background(), "client-1", models.GenerationRequest{Topic: "slow"})
	if err != nil {
		t.Fatalf("Start first: %v", err)
	}
	<-started

	running, err := svc.Get(context.Background(), first.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if running.Status != models.JobStatusRunning || !strings.HasPrefix(running.Message, "Brainstorming") {
		t.Errorf("in-flight job: got status %q message %q", running.Status, running.Message)
	}

	second, err := svc.Start(context.Background(), "client-1", models.GenerationRequest{Topic: "fast"})
	if err != nil {
		t.Fatalf("Start second: %v", err)
	}
	if got := waitFinished(t, svc, second.ID.String()); got.Status != models.JobStatusDone {
		t.Fatalf("second job: got %q, want done", got.Status)
	}

	close(release)
	old := waitFinished(t, svc, first.ID.String())
	if old.Status != models.JobStatusSuperseded {
		t.Errorf("first job: got %q, want superseded", old.Status)
	}
	if len(old.Pins) != 0 {
		t.Errorf("superseded job should discard its pins, got %d", len(old.Pins))
	}
}

func TestStartCancelsPreviousContext(t *testing.T) {
	cancelled := make(chan error, 1)
	started := make(chan struct{}, 1)
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		if req.Topic == "first" {
			started <- struct{}{}
			<-ctx.Done()
			cancelled <- ctx.Err()
			return nil, ctx.Err()
		}
		return succeed(ctx, req, onProgress)
	})

	first, _ := svc.Start(context.Background(), "client-1", models.GenerationRequest{Topic: "first"})
	<-started
	if _, err := svc.Start(context.Background(), "client-1", models.GenerationRequest{Topic: "second"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case err := <-cancelled:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first generation was not cancelled")
	}

	if got := waitFinished(t, svc, first.ID.String()); got.Status != models.JobStatusSuperseded {
		t.Errorf("first job: got %q, want superseded", got.Status)
	}
}

func TestStartDifferentClientsRunIndependently(t *testing.T) {
	release := make(chan struct{})
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		<-release
		return readyPins(req.Topic), nil
	})

	a, _ := svc.Start(context.Background(), "client-a", models.GenerationRequest{Topic: "a"})
	b, _ := svc.Start(context.Background(), "client-b", models.GenerationRequest{Topic: "b"})
	close(release)

	for _, id := range []string{a.ID.String(), b.ID.String()} {
		if got := waitFinished(t, svc, id); got.Status != models.JobStatusDone {
			t.Errorf("job %s: got %q, want done", id, got.Status)
		}
	}
}

func TestStartSurvivesRequestCancellation(t *testing.T) {
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		time.Sleep(20 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return readyPins(req.Topic), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	job, err := svc.Start(ctx, "c", models.GenerationRequest{Topic: "t"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	if got := waitFinished(t, svc, job.ID.String()); got.Status != models.JobStatusDone {
		t.Errorf("status: got %q, want done", got.Status)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(succeed)

	for _, id := range []string{"00000000-0000-0000-0000-000000000000", "not-a-uuid", ""} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) = %v, want ErrNotFound", id, err)
		}
	}
}

type fakeArchiver struct {
	mu   sync.Mutex
	fail map[string]bool
	seen []string
}

func (a *fakeArchiver) Archive(_ context.Context, pin models.Pin) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seen = append(a.seen, pin.ID)
	if a.fail[pin.ID] {
		return "", errors.New("s3 upload: access denied")
	}
	return "https://cdn.example.com/pins/" + pin.ID + ".png", nil
}

func TestArchiverReplacesURLs(t *testing.T) {
	archiver := &fakeArchiver{fail: map[string]bool{"image-1-1": true}}
	svc := newTestService(succeed, WithArchiver(archiver))

	job, _ := svc.Start(context.Background(), "c", models.GenerationRequest{Topic: "t"})
	done := waitFinished(t, svc, job.ID.String())

	if done.Status != models.JobStatusDone {
		t.Fatalf("archive failures must not fail the batch, got %q", done.Status)
	}
	if got := done.Pins[0].URL; got != "https://cdn.example.com/pins/image-1-0.png" {
		t.Errorf("archived pin URL: got %q", got)
	}
	if got := done.Pins[1].URL; got != "data:image/png;base64,BBBB" {
		t.Errorf("failed archive should keep the data URI, got %q", got)
	}
	if len(archiver.seen) != 2 {
		t.Errorf("expected 2 archive calls, got %d", len(archiver.seen))
	}
}

func TestShutdownCancelsRunningJobs(t *testing.T) {
	svc := newTestService(func(ctx context.Context, req models.GenerationRequest, onProgress pins.ProgressFunc) ([]models.Pin, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	job, _ := svc.Start(context.Background(), "c", models.GenerationRequest{Topic: "t"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	got, err := svc.Get(context.Background(), job.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.JobStatusFailed || got.Error != msgCancelled {
		t.Errorf("got status %q error %q", got.Status, got.Error)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "invalid key", err: errors.New(`gemini API error (status 400): API key not valid`), want: msgInvalidKey},
		{name: "permission denied", err: errors.New(`{"status": "PERMISSION_DENIED"}`), want: msgInvalidKey},
		{name: "raw message", err: errors.New("pin ideas: model returned invalid output"), want: "pin ideas: model returned invalid output"},
		{name: "empty message", err: errors.New(""), want: msgUnexpected},
		{name: "cancelled", err: fmt.Errorf("pin 2: %w", context.Canceled), want: msgCancelled},
		{name: "missing key from ideas", err: fmt.Errorf("pin ideas: %w", ai.ErrConfiguration), want: ai.ErrConfiguration.Error()},
		{name: "missing key from image", err: fmt.Errorf("pin 1: %w", ai.ErrConfiguration), want: ai.ErrConfiguration.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
