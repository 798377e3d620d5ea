package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/khelwa/internal/models"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	return map[string]KV{
		"file":   NewFileKV(filepath.Join(t.TempDir(), "playlists")),
		"memory": NewMemoryKV(),
	}
}

func TestKV_Contract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			keys, err := kv.ListKeys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			_, err = kv.Get(ctx, "PL1")
			assert.True(t, IsNotFound(err))

			require.NoError(t, kv.Put(ctx, "PL2", []byte(`["b"]`)))
			require.NoError(t, kv.Put(ctx, "PL1", []byte(`["a"]`)))

			got, err := kv.Get(ctx, "PL1")
			require.NoError(t, err)
			assert.Equal(t, `["a"]`, string(got))

			// Overwrite replaces the whole value
			require.NoError(t, kv.Put(ctx, "PL1", []byte(`[]`)))
			got, err = kv.Get(ctx, "PL1")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			keys, err = kv.ListKeys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"PL1", "PL2"}, keys)
		})
	}
}

func TestKV_RejectsUnsafeKeys(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../escape", "a/b"} {
				err := kv.Put(context.Background(), key, []byte("x"))
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestFileKV_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv := NewFileKV(dir)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "PL1", []byte("one")))
	require.NoError(t, kv.Put(ctx, "PL1", []byte("two")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "PL1.json", entries[0].Name())

	// Non-json files are not keys
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	keys, err := kv.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PL1"}, keys)
}

func TestFileKV_ConcurrentDistinctKeys(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, key := range []string{"A", "B", "C", "D", "E"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			assert.NoError(t, kv.Put(ctx, k, []byte(k)))
		}(key)
	}
	wg.Wait()

	keys, err := kv.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, keys)
}

func TestFileKV_Health(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, NewFileKV(filepath.Join(dir, "missing")).Health(context.Background()))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	assert.Error(t, NewFileKV(file).Health(context.Background()))
}

func TestCatalogStore_PersistsVideosOnly(t *testing.T) {
	dir := t.TempDir()
	catalogs := NewCatalogStore(NewFileKV(dir))
	ctx := context.Background()

	catalog := &models.PlaylistCatalog{
		PlaylistTitle: "Algebra",
		PlaylistID:    "PL1",
		VideoCount:    1,
		Videos: []models.VideoRecord{{
			Title:        models.StringPtr("Intro & Setup"),
			URL:          "https://www.youtube.com/watch?v=abc",
			ThumbnailURL: "https://i.ytimg.com/vi/abc/mqdefault.jpg",
			VideoID:      "abc",
			PlaylistID:   "PL1",
		}},
	}
	require.NoError(t, catalogs.Put(ctx, catalog))

	raw, err := os.ReadFile(filepath.Join(dir, "PL1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"thumbnail": "https://i.ytimg.com/vi/abc/mqdefault.jpg"`)
	assert.Contains(t, string(raw), "Intro & Setup")
	assert.NotContains(t, string(raw), "playlist_title")

	videos, err := catalogs.Get(ctx, "PL1")
	require.NoError(t, err)
	assert.Equal(t, catalog.Videos, videos)

	ids, err := catalogs.ListPlaylistIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PL1"}, ids)
}

func TestCatalogStore_ReadsNullTitles(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), "PL1",
		[]byte(`[{"title": null, "url": "u", "thumbnail": "th", "video_id": "v", "playlist_id": "PL1"}]`)))

	videos, err := NewCatalogStore(kv).Get(context.Background(), "PL1")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Nil(t, videos[0].Title)
	assert.Equal(t, "th", videos[0].ThumbnailURL)
}

func TestCatalogStore_Missing(t *testing.T) {
	_, err := NewCatalogStore(NewMemoryKV()).Get(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}

func TestIndexStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	index := NewFileIndexStore(path)
	ctx := context.Background()

	empty, err := index.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Sections)

	idx := models.NewSectionIndex()
	idx.FindOrCreate("Math").AddCategory(models.CategoryRef{
		PlaylistID: "PL1", Title: models.StringPtr("T1"), ThumbnailURL: "th1",
	})
	require.NoError(t, index.Save(ctx, idx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"sections":[{"title":"Math","categories":[{"playlist_id":"PL1","title":"T1","thumbnail_url":"th1"}]}]}`,
		string(raw))

	loaded, err := index.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, idx, loaded)
}

func TestIndexStore_EmptyFileAndCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	index := NewFileIndexStore(path)

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
	idx, err := index.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, idx.Sections)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = index.Load(context.Background())
	assert.Error(t, err)
}

func TestIndexStore_SharedKV(t *testing.T) {
	kv := NewMemoryKV()
	index := NewIndexStore(kv)
	require.NoError(t, index.Save(context.Background(), &models.SectionIndex{}))

	keys, err := kv.ListKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"data"}, keys)
}
