// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/khelwa/internal/api"
	"github.com/stwalsh4118/khelwa/internal/config"
	"github.com/stwalsh4118/khelwa/internal/ingest"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/middleware"
	"github.com/stwalsh4118/khelwa/internal/section"
	"github.com/stwalsh4118/khelwa/internal/youtube"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	storage    *Storage
	scheduler  *ingest.Scheduler
	tracker    *ingest.Tracker
	aggregator *section.Aggregator
	drafts     *section.Drafts
	router     *gin.Engine
	server     *http.Server
}

// New creates a server that ingests through yt-dlp
func New(cfg *config.Config, storage *Storage) *Server {
	extractor := youtube.NewYTDLPExtractor(cfg.Ingest.YTDLPPath, cfg.Ingest.ExtractTimeout)
	lister := youtube.NewLibraryLister(extractor, cfg.Ingest.ListTimeout)
	return NewWithSources(cfg, storage, lister, extractor)
}

// NewWithSources creates a server using the given playlist and video metadata sources
func NewWithSources(cfg *config.Config, storage *Storage, lister youtube.PlaylistLister, extractor youtube.VideoExtractor) *Server {
	ingestor := ingest.NewIngestor(
		youtube.NewFetcher(lister),
		youtube.NewResolver(extractor),
		storage.Catalogs,
		cfg.Ingest.VideoDelay,
	)
	scheduler := ingest.NewScheduler(ingestor, cfg.Ingest.MaxConcurrentJobs)
	scheduler.OnComplete = func(report *ingest.BatchReport) {
		logger.Log.Info().
			Str("batch_id", report.BatchID.String()).
			Int("succeeded", report.Succeeded).
			Int("failed", report.Failed).
			Msg(report.Summary())
	}

	s := &Server{
		config:     cfg,
		storage:    storage,
		scheduler:  scheduler,
		tracker:    ingest.NewTracker(scheduler, cfg.Ingest.BatchRetention),
		aggregator: section.NewAggregator(storage.Catalogs, storage.Index),
		drafts:     section.NewDrafts(),
	}
	s.setupRouter()
	return s
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.storage, s.storage.Backend)
	api.SetupIngestRoutes(apiGroup, s.scheduler, s.tracker)
	api.SetupPlaylistRoutes(apiGroup, s.storage.Catalogs)
	api.SetupSectionRoutes(apiGroup, s.aggregator, s.drafts)
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Str("storage", s.storage.Backend).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, cancels running batches and closes storage
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	var errs []error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	s.tracker.Stop()

	if err := s.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage close error: %w", err))
	}

	logger.Log.Info().Msg("Server stopped")
	return errors.Join(errs...)
}
