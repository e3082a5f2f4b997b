// Package main is the entry point for the pin studio server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinstudio/internal/ai"
	"pinstudio/internal/cache"
	"pinstudio/internal/config"
	"pinstudio/internal/generation"
	"pinstudio/internal/handlers"
	"pinstudio/internal/middleware"
	"pinstudio/internal/pins"
	"pinstudio/internal/render"
	"pinstudio/internal/router"
	"pinstudio/internal/storage"
	"pinstudio/web"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Gemini client. Outside production a missing key is tolerated: the
	// page still loads and every generation reports the configuration error.
	aiClient, err := ai.NewClient(ai.Config{
		APIKey:     cfg.GeminiKey,
		Model:      cfg.GeminiModel,
		ModelImage: cfg.GeminiModelImage,
		BaseURL:    cfg.GeminiBaseURL,
		Timeout:    cfg.AIRequestTimeout,
	})
	switch {
	case errors.Is(err, ai.ErrConfiguration):
		slog.Warn("GEMINI_API_KEY not set, generation requests will fail")
		aiClient = &ai.Client{}
	case err != nil:
		slog.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	default:
		slog.Info("gemini client initialized", "model", aiClient.Model())
	}

	// Job store: Valkey when configured so any replica can answer a poll,
	// otherwise process memory.
	var jobStore generation.JobStore
	var ping handlers.Pinger
	if cfg.UseValkey() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		jobStore = cache.NewValkeyJobStore(valkeyClient, cache.DefaultJobTTL)
		ping = func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() }
	} else {
		slog.Warn("valkey not configured, keeping jobs in memory")
		jobStore = cache.NewMemoryJobStore(cache.DefaultJobTTL)
	}

	// Connect to S3-compatible object storage (optional, pins stay inline without it).
	var genOpts []generation.Option
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		genOpts = append(genOpts, generation.WithArchiver(storageClient))
	} else {
		slog.Warn("s3 storage not configured, pins are served as data URIs")
	}

	orchestrator := pins.NewOrchestrator(aiClient, pins.WithImageInterval(cfg.ImageRateInterval))
	generations := generation.NewService(orchestrator, jobStore, genOpts...)
	brand := pins.NewBrand(aiClient, pins.DefaultPaletteTTL)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to load static assets", "error", err)
		os.Exit(1)
	}

	limiter := middleware.NewRateLimiter(cfg.GenerationRateLimit, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	// In non-development environments, mark cookies as Secure (HTTPS-only).
	r := router.New(router.Deps{
		Public:  handlers.NewPublic(renderer),
		API:     handlers.NewAPI(generations, brand),
		Health:  handlers.Health(ping),
		Static:  static,
		Limiter: limiter,
		Secure:  !cfg.IsDev(),
	})

	// Generations run in the background, so requests themselves are short;
	// only brand color extraction waits on the model.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests and running generations up to 30 seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := generations.Shutdown(ctx); err != nil {
		slog.Error("generations did not stop in time", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
