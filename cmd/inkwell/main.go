// Package main is the entry point for the Inkwell server. It loads
// configuration, connects to the content store and optional page cache,
// precomputes the detail-page paths, sets up routing, and starts the HTTP
// server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/blog"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/router"
	"inkwell/internal/sanity"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBaseURL(),
		"revalidate", cfg.RevalidateInterval.String(),
	)

	// Content store client.
	store := sanity.New(sanity.Config{
		BaseURL:    cfg.StoreBaseURL(),
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		Token:      cfg.SanityToken,
	})

	// Blog service with stale-while-revalidate post resolution.
	service := blog.New(store, cfg.RevalidateInterval)

	// Optional Valkey page cache. The site works without it; rendered pages
	// are then rebuilt per request from the resolver cache.
	var pageCache *cache.PageCache
	if cfg.ValkeyEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cfg.RevalidateInterval)
	} else {
		slog.Warn("valkey not configured — page cache disabled")
	}

	// Drop the cached detail page whenever its post is refreshed, so the
	// next request re-renders fresh content.
	service.OnRefresh(func(slug string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pageCache.Invalidate(ctx, cache.PostKey(slug))
	})

	// Precompute the set of detail-page slugs. Failure is not fatal:
	// unknown slugs still resolve on demand.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	paths, err := service.EnumeratePaths(ctx)
	cancel()
	if err != nil {
		slog.Warn("path enumeration failed, slugs will resolve on demand", "error", err)
	} else {
		slog.Info("paths enumerated", "count", len(paths))
	}

	// Site renderer over the store's asset CDN.
	renderer, err := render.New(store.ImageURL)
	if err != nil {
		slog.Error("failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	public := handlers.NewPublic(service, renderer, pageCache)

	// Comment submissions: at most a short burst per IP, then one every
	// ten seconds.
	commentLimiter := middleware.NewRateLimiter(10*time.Second, 5)
	defer commentLimiter.Stop()

	r := router.New(public, commentLimiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
