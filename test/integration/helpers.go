//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/khelwa/internal/config"
	"github.com/stwalsh4118/khelwa/internal/server"
)

// Environment variables selecting live fixtures
const (
	envPlaylistURL = "KHELWA_IT_PLAYLIST_URL"
	envYTDLPPath   = "KHELWA_IT_YTDLP_PATH"
)

// requireLiveYouTube skips the test unless yt-dlp and a fixture playlist are available
func requireLiveYouTube(t *testing.T) (playlistURL, ytdlpPath string) {
	t.Helper()

	playlistURL = os.Getenv(envPlaylistURL)
	if playlistURL == "" {
		t.Skipf("%s not set", envPlaylistURL)
	}

	ytdlpPath = os.Getenv(envYTDLPPath)
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if _, err := exec.LookPath(ytdlpPath); err != nil {
		t.Skipf("yt-dlp not available: %v", err)
	}
	return playlistURL, ytdlpPath
}

// migrationsPath resolves the repository migrations regardless of working directory
func migrationsPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)              // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir)) // repository root
	return "file://" + filepath.Join(rootDir, "migrations")
}

// setupTestServer builds a server backed by real yt-dlp and the given storage backend
func setupTestServer(t *testing.T, backend, ytdlpPath string) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "info"},
		Storage: config.StorageConfig{
			Backend:        backend,
			CatalogDir:     filepath.Join(dir, "playlists"),
			IndexPath:      filepath.Join(dir, "data.json"),
			DatabasePath:   filepath.Join(dir, "khelwa.db"),
			MigrationsPath: migrationsPath(t),
		},
		Ingest: config.IngestConfig{
			VideoDelay:     500 * time.Millisecond,
			ExtractTimeout: 60 * time.Second,
			ListTimeout:    120 * time.Second,
			YTDLPPath:      ytdlpPath,
			BatchRetention: time.Hour,
		},
	}

	storage, err := server.OpenStorage(&cfg.Storage)
	require.NoError(t, err, "Failed to open storage")

	srv := server.New(cfg, storage)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}
