// Package section merges section entries into the persisted section index.
package section

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/models"
	"github.com/stwalsh4118/khelwa/internal/store"
)

// CatalogReader reads stored playlist videos
type CatalogReader interface {
	Get(ctx context.Context, playlistID string) ([]models.VideoRecord, error)
}

// IndexRepository loads and saves the whole section index
type IndexRepository interface {
	Load(ctx context.Context) (*models.SectionIndex, error)
	Save(ctx context.Context, idx *models.SectionIndex) error
}

// Skip reasons
const (
	SkipMissingCatalog = "missing_catalog"
	SkipEmptyCatalog   = "empty_catalog"
	SkipUnreadable     = "unreadable_catalog"
)

// SkippedEntry is a section entry that contributed nothing to the index
type SkippedEntry struct {
	Title      string `json:"title"`
	PlaylistID string `json:"playlist_id"`
	Reason     string `json:"reason"`
}

// MergeReport counts what a merge did with each entry
type MergeReport struct {
	Added           int            `json:"added"`
	Duplicates      int            `json:"duplicates"`
	MissingCatalogs int            `json:"missing_catalogs"`
	EmptyCatalogs   int            `json:"empty_catalogs"`
	Skipped         []SkippedEntry `json:"skipped"`
}

// Aggregator merges section entries into the index, one merge at a time
type Aggregator struct {
	catalogs CatalogReader
	index    IndexRepository
	mu       sync.Mutex
	log      zerolog.Logger
}

// NewAggregator creates an aggregator over the catalog and index stores
func NewAggregator(catalogs CatalogReader, index IndexRepository) *Aggregator {
	return &Aggregator{
		catalogs: catalogs,
		index:    index,
		log:      logger.Component("sections"),
	}
}

// Index returns the currently persisted section index
func (a *Aggregator) Index(ctx context.Context) (*models.SectionIndex, error) {
	idx, err := a.index.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexRead, err)
	}
	return idx, nil
}

// Merge adds a category for each entry's playlist under the entry's section
// title and saves the whole index. Entries whose catalog is missing or empty
// are skipped. Merging the same entries twice leaves the index unchanged.
func (a *Aggregator) Merge(ctx context.Context, entries []models.SectionEntry) (*models.SectionIndex, *MergeReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, err := a.index.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIndexRead, err)
	}

	report := &MergeReport{Skipped: []SkippedEntry{}}
	for _, entry := range entries {
		ref, reason := a.categoryFor(ctx, entry.PlaylistID)
		if reason != "" {
			a.skip(report, entry, reason)
			continue
		}

		if idx.FindOrCreate(entry.Title).AddCategory(ref) {
			report.Added++
		} else {
			report.Duplicates++
		}
	}

	if err := a.index.Save(ctx, idx); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIndexWrite, err)
	}

	a.log.Info().
		Int("entries", len(entries)).
		Int("added", report.Added).
		Int("duplicates", report.Duplicates).
		Int("skipped", len(report.Skipped)).
		Int("sections", len(idx.Sections)).
		Msg("Section index saved")

	return idx, report, nil
}

// categoryFor snapshots the first video of a catalog, or returns a skip reason.
// The category is keyed by the catalog's playlist ID, not the video's field.
func (a *Aggregator) categoryFor(ctx context.Context, playlistID string) (models.CategoryRef, string) {
	videos, err := a.catalogs.Get(ctx, playlistID)
	switch {
	case store.IsNotFound(err), store.IsInvalidKey(err):
		return models.CategoryRef{}, SkipMissingCatalog
	case err != nil:
		a.log.Error().Err(err).Str("playlist_id", playlistID).Msg("Failed to read catalog")
		return models.CategoryRef{}, SkipUnreadable
	case len(videos) == 0:
		return models.CategoryRef{}, SkipEmptyCatalog
	}

	first := videos[0]
	return models.CategoryRef{
		PlaylistID:   playlistID,
		Title:        first.Title,
		ThumbnailURL: first.ThumbnailURL,
	}, ""
}

func (a *Aggregator) skip(report *MergeReport, entry models.SectionEntry, reason string) {
	switch reason {
	case SkipMissingCatalog:
		report.MissingCatalogs++
	case SkipEmptyCatalog:
		report.EmptyCatalogs++
	}
	report.Skipped = append(report.Skipped, SkippedEntry{
		Title:      entry.Title,
		PlaylistID: entry.PlaylistID,
		Reason:     reason,
	})
	a.log.Warn().
		Str("section", entry.Title).
		Str("playlist_id", entry.PlaylistID).
		Str("reason", reason).
		Msg("Skipping section entry")
}

// MergeDrafts merges all pending drafts and clears them once the index is saved.
// Drafts added or cleared while the merge runs are left alone.
func (a *Aggregator) MergeDrafts(ctx context.Context, drafts *Drafts) (*models.SectionIndex, *MergeReport, error) {
	entries, mark := drafts.Snapshot()
	idx, report, err := a.Merge(ctx, entries)
	if err != nil {
		return nil, nil, err
	}
	drafts.RemoveThrough(mark)
	return idx, report, nil
}
