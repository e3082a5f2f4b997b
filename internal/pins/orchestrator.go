// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pins

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"pinstudio/internal/models"
)

// ProgressFunc receives human-readable status messages during a generation.
type ProgressFunc func(message string)

// Orchestrator sequences idea generation and the parallel image fan-out.
type Orchestrator struct {
	ideas   *Ideas
	images  *Images
	limiter *rate.Limiter
	now     func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithImageInterval paces image requests to at most one per interval.
// Zero leaves them unpaced.
func WithImageInterval(interval time.Duration) Option {
	return func(o *Orchestrator) {
		if interval > 0 {
			o.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// WithClock overrides the clock used for pin ids.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator whose idea and image steps share model.
func NewOrchestrator(model Model, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ideas:   NewIdeas(model),
		images:  NewImages(model),
		limiter: rate.NewLimiter(rate.Inf, 0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs one batch. Exactly one idea call precedes the image calls;
// all images are requested concurrently and joined all-or-nothing: if any
// image fails the whole batch fails and no pins are returned.
func (o *Orchestrator) Generate(ctx context.Context, req models.GenerationRequest, onProgress ProgressFunc) ([]models.Pin, error) {
	if onProgress == nil {
		onProgress = func(string) {}
	}

	onProgress(fmt.Sprintf("Brainstorming %s pin ideas...", strings.ToLower(string(req.Style))))
	ideas, err := o.ideas.Generate(ctx, req.Topic, req.URL, req.Style)
	if err != nil {
		return nil, err
	}

	stamp := o.now().UnixMilli()
	pins := make([]models.Pin, len(ideas))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, idea := range ideas {
		onProgress(fmt.Sprintf("Generating pin %d of %d...", i+1, len(ideas)))
		eg.Go(func() error {
			if err := o.limiter.Wait(egCtx); err != nil {
				return err
			}

			start := time.Now()
			url, err := o.images.Produce(egCtx, idea, req.OverlayText, req.Website, req.Typography, req.BrandColor)
			if err != nil {
				return fmt.Errorf("pin %d: %w", i+1, err)
			}

			slog.Debug("pin generated", "index", i+1, "duration", time.Since(start).Round(time.Millisecond))
			pins[i] = models.Pin{
				ID:     fmt.Sprintf("image-%d-%d", stamp, i),
				URL:    url,
				Prompt: idea,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	onProgress("Pins are ready!")
	return pins, nil
}
