// Package ingest resolves YouTube playlists into catalogs and runs
// batches of playlist ingestions concurrently.
package ingest

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/models"
	"github.com/stwalsh4118/khelwa/internal/youtube"
	"golang.org/x/time/rate"
)

// CatalogWriter persists a playlist catalog, replacing any previous one
type CatalogWriter interface {
	Put(ctx context.Context, catalog *models.PlaylistCatalog) error
}

// Ingestor turns one playlist URL into a stored catalog
type Ingestor struct {
	fetcher    *youtube.Fetcher
	resolver   *youtube.Resolver
	catalogs   CatalogWriter
	videoDelay time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewIngestor creates an ingestor. videoDelay spaces out title lookups
// within one playlist; zero disables pacing.
func NewIngestor(fetcher *youtube.Fetcher, resolver *youtube.Resolver, catalogs CatalogWriter, videoDelay time.Duration) *Ingestor {
	return &Ingestor{
		fetcher:    fetcher,
		resolver:   resolver,
		catalogs:   catalogs,
		videoDelay: videoDelay,
		now:        time.Now,
		log:        logger.Component("ingestor"),
	}
}

func (i *Ingestor) limiter() *rate.Limiter {
	if i.videoDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(i.videoDelay), 1)
}

// Ingest fetches the playlist at playlistURL, resolves every video title
// and overwrites the playlist's stored catalog.
func (i *Ingestor) Ingest(ctx context.Context, playlistURL string) (catalog *models.PlaylistCatalog, err error) {
	defer func() {
		if r := recover(); r != nil {
			i.log.Error().
				Str("url", playlistURL).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Ingestion job panicked")
			catalog = nil
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()

	playlistID, ok := youtube.ExtractPlaylistID(playlistURL)
	if !ok {
		i.log.Warn().Str("url", playlistURL).Msg("Invalid playlist URL")
		return nil, fmt.Errorf("%w: %q", ErrMalformedPlaylistURL, playlistURL)
	}

	fetched := i.fetcher.Fetch(ctx, playlistID)
	log := i.log.With().Str("playlist_id", playlistID).Str("playlist_title", fetched.Title).Logger()
	log.Info().Int("video_urls", len(fetched.VideoURLs)).Msg("Ingesting playlist")

	limiter := i.limiter()
	videos := make([]models.VideoRecord, 0, len(fetched.VideoURLs))
	for _, videoURL := range fetched.VideoURLs {
		videoID, ok := youtube.ExtractVideoID(videoURL)
		if !ok {
			log.Warn().Str("url", videoURL).Msg("Could not extract video ID, skipping")
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("ingest %s: %w", playlistID, err)
		}

		title := i.resolver.Resolve(ctx, videoURL)
		videos = append(videos, youtube.NewVideoRecord(videoID, playlistID, title))
		log.Debug().Str("video_id", videoID).Msg("Added video")
	}

	catalog = models.NewPlaylistCatalog(playlistID, playlistURL, fetched.Title, videos, i.now())
	if err := i.catalogs.Put(ctx, catalog); err != nil {
		log.Error().Err(err).Msg("Failed to write catalog")
		return nil, fmt.Errorf("%w: %w", ErrCatalogWrite, err)
	}

	log.Info().Int("video_count", catalog.VideoCount).Msg("Completed playlist")
	return catalog, nil
}
