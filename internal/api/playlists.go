package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/models"
	"github.com/stwalsh4118/khelwa/internal/store"
)

// PlaylistListResponse lists the playlists that have a stored catalog
type PlaylistListResponse struct {
	PlaylistIDs []string `json:"playlist_ids"`
	Total       int      `json:"total"`
}

// PlaylistResponse is a stored catalog
type PlaylistResponse struct {
	PlaylistID string               `json:"playlist_id"`
	VideoCount int                  `json:"video_count"`
	Videos     []models.VideoRecord `json:"videos"`
}

// PlaylistHandler serves stored playlist catalogs
type PlaylistHandler struct {
	catalogs *store.CatalogStore
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(catalogs *store.CatalogStore) *PlaylistHandler {
	return &PlaylistHandler{catalogs: catalogs}
}

// ListPlaylists handles GET /api/playlists
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	ids, err := h.catalogs.ListPlaylistIDs(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list playlists")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list playlists",
		})
		return
	}

	c.JSON(http.StatusOK, PlaylistListResponse{PlaylistIDs: ids, Total: len(ids)})
}

// GetPlaylist handles GET /api/playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	id := c.Param("id")

	videos, err := h.catalogs.Get(c.Request.Context(), id)
	if err != nil {
		if store.IsNotFound(err) || store.IsInvalidKey(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "playlist_not_found",
				Message: "Playlist not found",
			})
			return
		}
		logger.Log.Error().Err(err).Str("playlist_id", id).Msg("Failed to read playlist")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to read playlist",
		})
		return
	}

	c.JSON(http.StatusOK, PlaylistResponse{PlaylistID: id, VideoCount: len(videos), Videos: videos})
}

// SetupPlaylistRoutes registers playlist catalog routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, catalogs *store.CatalogStore) {
	handler := NewPlaylistHandler(catalogs)

	apiGroup.GET("/playlists", handler.ListPlaylists)
	apiGroup.GET("/playlists/:id", handler.GetPlaylist)
}
