package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/khelwa/internal/models"
	"github.com/stwalsh4118/khelwa/internal/store"
	"github.com/stwalsh4118/khelwa/internal/youtube"
)

// fakeYouTube serves playlists and video titles from memory
type fakeYouTube struct {
	mu        sync.Mutex
	titles    map[string]string   // playlist ID -> title
	playlists map[string][]string // playlist ID -> video URLs
	videos    map[string]string   // video URL -> title
	listErr   error
	panicOn   string
	lookups   []string
}

func newFakeYouTube() *fakeYouTube {
	return &fakeYouTube{
		titles:    map[string]string{},
		playlists: map[string][]string{},
		videos:    map[string]string{},
	}
}

func (f *fakeYouTube) PlaylistTitle(_ context.Context, playlistID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	title, ok := f.titles[playlistID]
	if !ok {
		return "", errors.New("playlist not found")
	}
	return title, nil
}

func (f *fakeYouTube) VideoURLs(_ context.Context, playlistID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.playlists[playlistID]...), nil
}

func (f *fakeYouTube) ExtractTitle(_ context.Context, videoURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, videoURL)
	if f.panicOn != "" && videoURL == f.panicOn {
		panic("extractor crashed")
	}
	title, ok := f.videos[videoURL]
	if !ok {
		return "", errors.New("video unavailable")
	}
	return title, nil
}

// addPlaylist registers a playlist whose videos are titled "<id> title"
func (f *fakeYouTube) addPlaylist(playlistID, title string, videoIDs ...string) {
	f.titles[playlistID] = title
	for _, id := range videoIDs {
		url := youtube.WatchURL(id)
		f.playlists[playlistID] = append(f.playlists[playlistID], url)
		f.videos[url] = id + " title"
	}
}

type failingWriter struct{}

func (failingWriter) Put(context.Context, *models.PlaylistCatalog) error {
	return errors.New("disk full")
}

func setupIngestor(t *testing.T, yt *fakeYouTube, delay time.Duration) (*Ingestor, *store.CatalogStore) {
	t.Helper()
	catalogs := store.NewCatalogStore(store.NewMemoryKV())
	ing := NewIngestor(youtube.NewFetcher(yt), youtube.NewResolver(yt), catalogs, delay)
	return ing, catalogs
}

func TestIngest_ExampleURL(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL999", "Physics", "abc123", "def456")
	ing, catalogs := setupIngestor(t, yt, 0)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	ing.now = func() time.Time { return fixed }

	catalog, err := ing.Ingest(context.Background(), "https://www.youtube.com/watch?v=abc123&list=PL999")
	require.NoError(t, err)

	assert.Equal(t, "PL999", catalog.PlaylistID)
	assert.Equal(t, "Physics", catalog.PlaylistTitle)
	assert.Equal(t, 2, catalog.VideoCount)
	assert.Equal(t, fixed.UTC(), catalog.LastUpdated)
	assert.Equal(t, time.UTC, catalog.LastUpdated.Location())

	videos, err := catalogs.Get(context.Background(), "PL999")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "abc123", videos[0].VideoID)
	assert.Equal(t, "abc123 title", *videos[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", videos[0].URL)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/mqdefault.jpg", videos[0].ThumbnailURL)
	assert.Equal(t, "PL999", videos[0].PlaylistID)
	assert.Equal(t, "def456", videos[1].VideoID)
}

func TestIngest_SkipsURLsWithoutVideoID(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "Mixed", "a1", "b2", "c3")
	// Two of five members have no v= parameter
	yt.playlists["PL1"] = []string{
		youtube.WatchURL("a1"),
		"https://youtu.be/zzz",
		youtube.WatchURL("b2"),
		"https://www.youtube.com/shorts/yyy",
		youtube.WatchURL("c3"),
	}
	ing, _ := setupIngestor(t, yt, 0)

	catalog, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	require.Equal(t, 3, catalog.VideoCount)
	ids := []string{catalog.Videos[0].VideoID, catalog.Videos[1].VideoID, catalog.Videos[2].VideoID}
	assert.Equal(t, []string{"a1", "b2", "c3"}, ids)
	assert.Len(t, yt.lookups, 3, "skipped URLs are not resolved")
}

func TestIngest_UnresolvableTitleIsNull(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "Gaps", "a1", "b2")
	delete(yt.videos, youtube.WatchURL("b2"))
	ing, catalogs := setupIngestor(t, yt, 0)

	_, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	videos, err := catalogs.Get(context.Background(), "PL1")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.NotNil(t, videos[0].Title)
	assert.Nil(t, videos[1].Title)
	assert.Equal(t, "b2", videos[1].VideoID)
}

func TestIngest_ListingFailureWritesEmptyCatalog(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "Private", "a1")
	yt.listErr = errors.New("forbidden")
	ing, catalogs := setupIngestor(t, yt, 0)

	catalog, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)
	assert.Equal(t, 0, catalog.VideoCount)
	assert.Equal(t, "Private", catalog.PlaylistTitle)

	videos, err := catalogs.Get(context.Background(), "PL1")
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestIngest_TitleFallback(t *testing.T) {
	yt := newFakeYouTube()
	yt.playlists["PL7"] = []string{youtube.WatchURL("a1")}
	ing, _ := setupIngestor(t, yt, 0)

	catalog, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL7")
	require.NoError(t, err)
	assert.Equal(t, "Playlist PL7", catalog.PlaylistTitle)
}

func TestIngest_MalformedURL(t *testing.T) {
	yt := newFakeYouTube()
	ing, catalogs := setupIngestor(t, yt, 0)

	_, err := ing.Ingest(context.Background(), "https://www.youtube.com/watch?v=abc123")
	assert.True(t, IsMalformedURL(err))

	ids, err := catalogs.ListPlaylistIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIngest_WriteFailure(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "T", "a1")
	ing := NewIngestor(youtube.NewFetcher(yt), youtube.NewResolver(yt), failingWriter{}, 0)

	catalog, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	assert.Nil(t, catalog)
	assert.True(t, IsCatalogWrite(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestIngest_ReingestOverwrites(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "T", "a1", "b2", "c3")
	ing, catalogs := setupIngestor(t, yt, 0)
	ctx := context.Background()

	_, err := ing.Ingest(ctx, "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	yt.playlists["PL1"] = []string{youtube.WatchURL("z9")}
	yt.videos[youtube.WatchURL("z9")] = "new"
	_, err = ing.Ingest(ctx, "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	videos, err := catalogs.Get(ctx, "PL1")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "z9", videos[0].VideoID)
}

func TestIngest_PanicIsContained(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "T", "a1")
	yt.panicOn = youtube.WatchURL("a1")
	ing, _ := setupIngestor(t, yt, 0)

	catalog, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	assert.Nil(t, catalog)
	assert.ErrorIs(t, err, ErrJobPanicked)
}

func TestIngest_PacesVideoLookups(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "T", "a1", "b2", "c3")
	ing, _ := setupIngestor(t, yt, 30*time.Millisecond)

	start := time.Now()
	_, err := ing.Ingest(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	// First lookup is immediate, the next two wait one interval each
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestIngest_Cancelled(t *testing.T) {
	yt := newFakeYouTube()
	yt.addPlaylist("PL1", "T", "a1", "b2")
	ing, catalogs := setupIngestor(t, yt, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Ingest(ctx, "https://www.youtube.com/playlist?list=PL1")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = catalogs.Get(context.Background(), "PL1")
	assert.True(t, store.IsNotFound(err), "nothing is written for an aborted job")
}

func TestParseURLList(t *testing.T) {
	text := "https://a/playlist?list=PL1\r\n\n   https://b/playlist?list=PL2  \n\t\nhttps://c/playlist?list=PL1\n"
	assert.Equal(t, []string{
		"https://a/playlist?list=PL1",
		"https://b/playlist?list=PL2",
		"https://c/playlist?list=PL1",
	}, ParseURLList(text))

	assert.Empty(t, ParseURLList(strings.Repeat("\n", 3)))
	assert.NotNil(t, ParseURLList(""))
}
