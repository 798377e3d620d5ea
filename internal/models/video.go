package models

import "time"

// VideoRecord represents one resolved video of a playlist.
// Title is nil when the metadata service could not resolve it.
type VideoRecord struct {
	Title        *string `json:"title"`
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnail"`
	VideoID      string  `json:"video_id"`
	PlaylistID   string  `json:"playlist_id"`
}

// PlaylistCatalog is the resolved catalog of a single playlist.
// Only Videos is persisted; the envelope fields are computed per ingestion run.
type PlaylistCatalog struct {
	PlaylistTitle string        `json:"playlist_title"`
	PlaylistID    string        `json:"playlist_id"`
	PlaylistURL   string        `json:"playlist_url"`
	VideoCount    int           `json:"video_count"`
	LastUpdated   time.Time     `json:"last_updated"`
	Videos        []VideoRecord `json:"videos"`
}

// NewPlaylistCatalog assembles a catalog stamped with the given completion time
func NewPlaylistCatalog(playlistID, playlistURL, title string, videos []VideoRecord, completedAt time.Time) *PlaylistCatalog {
	if videos == nil {
		videos = []VideoRecord{}
	}
	return &PlaylistCatalog{
		PlaylistTitle: title,
		PlaylistID:    playlistID,
		PlaylistURL:   playlistURL,
		VideoCount:    len(videos),
		LastUpdated:   completedAt.UTC(),
		Videos:        videos,
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
