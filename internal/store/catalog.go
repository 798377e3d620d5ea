package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stwalsh4118/khelwa/internal/models"
)

// CatalogStore persists one playlist's videos per playlist ID.
// Only the videos array is written; envelope fields are not round-tripped.
type CatalogStore struct {
	kv KV
}

// NewCatalogStore creates a catalog repository over kv
func NewCatalogStore(kv KV) *CatalogStore {
	return &CatalogStore{kv: kv}
}

// Put overwrites the stored videos for the catalog's playlist ID
func (s *CatalogStore) Put(ctx context.Context, catalog *models.PlaylistCatalog) error {
	videos := catalog.Videos
	if videos == nil {
		videos = []models.VideoRecord{}
	}

	data, err := encodeJSON(videos)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", catalog.PlaylistID, err)
	}
	if err := s.kv.Put(ctx, catalog.PlaylistID, data); err != nil {
		return fmt.Errorf("store catalog %s: %w", catalog.PlaylistID, err)
	}
	return nil
}

// Get returns the stored videos for playlistID, or ErrNotFound
func (s *CatalogStore) Get(ctx context.Context, playlistID string) ([]models.VideoRecord, error) {
	data, err := s.kv.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	var videos []models.VideoRecord
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", playlistID, err)
	}
	if videos == nil {
		videos = []models.VideoRecord{}
	}
	return videos, nil
}

// ListPlaylistIDs returns the IDs of all stored catalogs
func (s *CatalogStore) ListPlaylistIDs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	return keys, nil
}

// indexKey is the document key used when the index lives in a shared store
const indexKey = "data"

// IndexStore persists the whole section index under a single key
type IndexStore struct {
	kv  KV
	key string
}

// NewIndexStore creates an index repository using the default document key
func NewIndexStore(kv KV) *IndexStore {
	return &IndexStore{kv: kv, key: indexKey}
}

// NewFileIndexStore stores the index at path, e.g. "data.json"
func NewFileIndexStore(path string) *IndexStore {
	ext := filepath.Ext(path)
	kv := &FileKV{dir: filepath.Dir(path), ext: ext}
	return &IndexStore{kv: kv, key: strings.TrimSuffix(filepath.Base(path), ext)}
}

// Load reads the index. A missing document yields an empty index.
func (s *IndexStore) Load(ctx context.Context) (*models.SectionIndex, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if IsNotFound(err) {
			return models.NewSectionIndex(), nil
		}
		return nil, fmt.Errorf("read section index: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return models.NewSectionIndex(), nil
	}

	var idx models.SectionIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode section index: %w", err)
	}
	idx.Normalize()
	return &idx, nil
}

// Save overwrites the whole index
func (s *IndexStore) Save(ctx context.Context, idx *models.SectionIndex) error {
	if idx.Sections == nil {
		idx.Sections = []models.Section{}
	}

	data, err := encodeJSON(idx)
	if err != nil {
		return fmt.Errorf("encode section index: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("write section index: %w", err)
	}
	return nil
}

// encodeJSON renders v indented, keeping '&', '<' and '>' in titles literal
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
