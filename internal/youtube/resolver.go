package youtube

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stwalsh4118/khelwa/internal/logger"
)

// VideoExtractor looks up metadata for a single video
type VideoExtractor interface {
	ExtractTitle(ctx context.Context, videoURL string) (string, error)
}

// Resolver turns a video URL into a title, absorbing extractor failures
type Resolver struct {
	extractor VideoExtractor
	log       zerolog.Logger
}

// NewResolver creates a resolver over extractor
func NewResolver(extractor VideoExtractor) *Resolver {
	return &Resolver{
		extractor: extractor,
		log:       logger.Component("resolver"),
	}
}

// Resolve returns the video's title, or nil if it could not be determined
func (r *Resolver) Resolve(ctx context.Context, videoURL string) *string {
	title, err := r.extractor.ExtractTitle(ctx, videoURL)
	if err != nil {
		r.log.Warn().Err(err).Str("url", videoURL).Msg("Failed to resolve video title")
		return nil
	}
	if strings.TrimSpace(title) == "" {
		r.log.Warn().Str("url", videoURL).Msg("Video has no title")
		return nil
	}
	return &title
}
