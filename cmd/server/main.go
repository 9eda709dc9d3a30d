package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docnav/internal/api"
	"github.com/dgallion1/docnav/internal/catalog"
	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/contentapi"
	"github.com/dgallion1/docnav/internal/logging"
	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/dgallion1/docnav/internal/products"
	"github.com/dgallion1/docnav/internal/tutorials"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	content := contentapi.NewClient(contentapi.Options{
		BaseURL:    cfg.ContentAPIURL,
		APIKey:     cfg.ContentAPIKey,
		ContentDir: cfg.ContentDir,
		Logger:     log.Named("contentapi"),
	})
	registry := products.NewRegistry(cfg.BetaProducts)
	rewriter, err := tutorials.NewRewriter(cfg.LearnBaseURL, registry, log.Named("tutorials"))
	if err != nil {
		log.Fatal("invalid learn base url", zap.Error(err))
	}

	// Initialize pipeline. The first build runs before the listener opens
	// so the catalog is never served empty.
	cat := catalog.New()
	worker := pipeline.NewWorker(pipeline.Sources{
		Products:    cfg.Products,
		Sections:    cfg.NavSections,
		Version:     cfg.NavVersion,
		HVDDir:      cfg.HVDContentDir,
		Registry:    registry,
		Nav:         content,
		MaxParallel: cfg.MaxConcurrentFetch,
	}, cat, log.Named("pipeline"))
	orch := pipeline.NewOrchestrator(cfg, worker, log.Named("pipeline"))

	initial := orch.RunNow(ctx, pipeline.NewJob("startup"))
	log.Info("initial catalog build",
		zap.String("job_id", initial.ID),
		zap.String("status", string(initial.Status)),
		zap.Strings("errors", initial.Progress.Errors),
	)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(api.Deps{
		Catalog:   cat,
		Reindexer: orch,
		Content:   content,
		Rewriter:  rewriter,
		Registry:  registry,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown. The listener drains before the pool stops so no
	// request can submit into a closed queue.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}

		orch.Stop()
		content.Close()
	}()

	log.Info("starting docnav", zap.String("port", cfg.Port))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
	<-done
	log.Info("shutdown complete")
}
