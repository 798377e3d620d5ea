// Package youtube extracts identifiers from YouTube URLs and wraps the
// metadata services used to resolve playlists and video titles.
package youtube

import (
	"fmt"
	"regexp"

	"github.com/stwalsh4118/khelwa/internal/models"
)

// URL templates
const (
	WatchURLTemplate     = "https://www.youtube.com/watch?v=%s"
	ThumbnailURLTemplate = "https://i.ytimg.com/vi/%s/mqdefault.jpg"
	PlaylistURLTemplate  = "https://www.youtube.com/playlist?list=%s"
	fallbackTitlePrefix  = "Playlist "
)

var (
	playlistIDPattern = regexp.MustCompile(`list=([\w-]+)`)
	videoIDPattern    = regexp.MustCompile(`v=([\w-]+)`)
)

// ExtractPlaylistID returns the first "list=" parameter value in url
func ExtractPlaylistID(url string) (string, bool) {
	return firstGroup(playlistIDPattern, url)
}

// ExtractVideoID returns the first "v=" parameter value in url
func ExtractVideoID(url string) (string, bool) {
	return firstGroup(videoIDPattern, url)
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// WatchURL returns the canonical watch URL for a video
func WatchURL(videoID string) string {
	return fmt.Sprintf(WatchURLTemplate, videoID)
}

// ThumbnailURL returns the medium-quality thumbnail URL for a video
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf(ThumbnailURLTemplate, videoID)
}

// PlaylistURL returns the canonical playlist page URL
func PlaylistURL(playlistID string) string {
	return fmt.Sprintf(PlaylistURLTemplate, playlistID)
}

// FallbackPlaylistTitle is used when the playlist title cannot be resolved
func FallbackPlaylistTitle(playlistID string) string {
	return fallbackTitlePrefix + playlistID
}

// NewVideoRecord builds a record with canonical watch and thumbnail URLs
func NewVideoRecord(videoID, playlistID string, title *string) models.VideoRecord {
	return models.VideoRecord{
		Title:        title,
		URL:          WatchURL(videoID),
		ThumbnailURL: ThumbnailURL(videoID),
		VideoID:      videoID,
		PlaylistID:   playlistID,
	}
}
