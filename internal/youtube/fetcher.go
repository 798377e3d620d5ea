package youtube

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stwalsh4118/khelwa/internal/logger"
)

// PlaylistLister looks up a playlist's title and its member video URLs
type PlaylistLister interface {
	PlaylistTitle(ctx context.Context, playlistID string) (string, error)
	VideoURLs(ctx context.Context, playlistID string) ([]string, error)
}

// FetchResult is the outcome of fetching a playlist.
// Fetch never fails outright; degraded lookups are flagged instead.
type FetchResult struct {
	Title         string
	TitleFallback bool
	VideoURLs     []string
	ListingErr    error
}

// Fetcher resolves playlist metadata with fallbacks
type Fetcher struct {
	lister PlaylistLister
	log    zerolog.Logger
}

// NewFetcher creates a fetcher over lister
func NewFetcher(lister PlaylistLister) *Fetcher {
	return &Fetcher{
		lister: lister,
		log:    logger.Component("fetcher"),
	}
}

// Fetch returns the playlist title and ordered video URLs for playlistID
func (f *Fetcher) Fetch(ctx context.Context, playlistID string) FetchResult {
	var res FetchResult

	title, err := f.lister.PlaylistTitle(ctx, playlistID)
	title = strings.TrimSpace(title)
	switch {
	case err != nil:
		f.log.Warn().Err(err).Str("playlist_id", playlistID).Msg("Failed to fetch playlist title, using fallback")
		res.Title, res.TitleFallback = FallbackPlaylistTitle(playlistID), true
	case title == "":
		res.Title, res.TitleFallback = FallbackPlaylistTitle(playlistID), true
	default:
		res.Title = title
	}

	urls, err := f.lister.VideoURLs(ctx, playlistID)
	if err != nil {
		f.log.Error().Err(err).Str("playlist_id", playlistID).Msg("Failed to list playlist videos")
		res.VideoURLs = []string{}
		res.ListingErr = err
		return res
	}
	if urls == nil {
		urls = []string{}
	}
	res.VideoURLs = urls
	return res
}
