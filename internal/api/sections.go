package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/models"
	"github.com/stwalsh4118/khelwa/internal/section"
)

// SectionEntryRequest pairs a section title with the selected playlists
type SectionEntryRequest struct {
	Title       string   `json:"title"`
	PlaylistIDs []string `json:"playlist_ids"`
}

// DraftsResponse lists the pending section entries
type DraftsResponse struct {
	Entries []models.SectionEntry `json:"entries"`
	Total   int                   `json:"total"`
}

// MergeResponse is the saved index together with what the merge did
type MergeResponse struct {
	Index  *models.SectionIndex `json:"index"`
	Report *section.MergeReport `json:"report"`
}

// SectionHandler handles section building requests
type SectionHandler struct {
	aggregator *section.Aggregator
	drafts     *section.Drafts
}

// NewSectionHandler creates a new section handler instance
func NewSectionHandler(aggregator *section.Aggregator, drafts *section.Drafts) *SectionHandler {
	return &SectionHandler{aggregator: aggregator, drafts: drafts}
}

// bindEntries parses and validates a section entry request, writing a 400 on failure
func bindEntries(c *gin.Context) ([]models.SectionEntry, bool) {
	var req SectionEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return nil, false
	}

	entries, err := models.BuildSectionEntries(req.Title, req.PlaylistIDs)
	if err != nil {
		code := "invalid_entry"
		switch {
		case errors.Is(err, models.ErrEmptySectionTitle):
			code = "missing_title"
		case errors.Is(err, models.ErrNoPlaylistsSelected):
			code = "no_playlists"
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: err.Error()})
		return nil, false
	}
	return entries, true
}

// AddDrafts handles POST /api/sections/drafts
func (h *SectionHandler) AddDrafts(c *gin.Context) {
	entries, ok := bindEntries(c)
	if !ok {
		return
	}

	h.drafts.Add(entries...)
	pending := h.drafts.List()
	c.JSON(http.StatusCreated, DraftsResponse{Entries: pending, Total: len(pending)})
}

// ListDrafts handles GET /api/sections/drafts
func (h *SectionHandler) ListDrafts(c *gin.Context) {
	pending := h.drafts.List()
	c.JSON(http.StatusOK, DraftsResponse{Entries: pending, Total: len(pending)})
}

// ClearDrafts handles DELETE /api/sections/drafts
func (h *SectionHandler) ClearDrafts(c *gin.Context) {
	h.drafts.Clear()
	c.JSON(http.StatusOK, MessageResponse{Message: "Drafts cleared"})
}

// SaveDrafts handles POST /api/sections/save
func (h *SectionHandler) SaveDrafts(c *gin.Context) {
	idx, report, err := h.aggregator.MergeDrafts(c.Request.Context(), h.drafts)
	if err != nil {
		h.mergeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, MergeResponse{Index: idx, Report: report})
}

// MergeEntries handles POST /api/sections
func (h *SectionHandler) MergeEntries(c *gin.Context) {
	entries, ok := bindEntries(c)
	if !ok {
		return
	}

	idx, report, err := h.aggregator.Merge(c.Request.Context(), entries)
	if err != nil {
		h.mergeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, MergeResponse{Index: idx, Report: report})
}

// GetIndex handles GET /api/sections
func (h *SectionHandler) GetIndex(c *gin.Context) {
	idx, err := h.aggregator.Index(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load section index")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "index_unavailable",
			Message: "Failed to load section index",
		})
		return
	}
	c.JSON(http.StatusOK, idx)
}

func (h *SectionHandler) mergeFailed(c *gin.Context, err error) {
	logger.Log.Error().Err(err).Msg("Failed to save section index")

	code := "merge_failed"
	switch {
	case errors.Is(err, section.ErrIndexRead):
		code = "index_unavailable"
	case errors.Is(err, section.ErrIndexWrite):
		code = "index_write_failed"
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   code,
		Message: "Failed to save sections",
	})
}

// SetupSectionRoutes registers section building routes
func SetupSectionRoutes(apiGroup *gin.RouterGroup, aggregator *section.Aggregator, drafts *section.Drafts) {
	handler := NewSectionHandler(aggregator, drafts)

	sections := apiGroup.Group("/sections")
	sections.GET("", handler.GetIndex)
	sections.POST("", handler.MergeEntries)
	sections.POST("/save", handler.SaveDrafts)
	sections.GET("/drafts", handler.ListDrafts)
	sections.POST("/drafts", handler.AddDrafts)
	sections.DELETE("/drafts", handler.ClearDrafts)
}
