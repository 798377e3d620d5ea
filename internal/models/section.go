package models

import (
	"errors"
	"strings"
)

// Section entry validation errors
var (
	// ErrEmptySectionTitle indicates a section title is blank
	ErrEmptySectionTitle = errors.New("section title is required")

	// ErrNoPlaylistsSelected indicates no playlist was selected for a section
	ErrNoPlaylistsSelected = errors.New("at least one playlist must be selected")
)

// SectionEntry is a pending association between a section title and a playlist
type SectionEntry struct {
	Title      string `json:"title"`
	PlaylistID string `json:"playlist_id"`
}

// BuildSectionEntries pairs a section title with each selected playlist ID.
// Blank playlist IDs are ignored.
func BuildSectionEntries(title string, playlistIDs []string) ([]SectionEntry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptySectionTitle
	}

	entries := make([]SectionEntry, 0, len(playlistIDs))
	for _, id := range playlistIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		entries = append(entries, SectionEntry{Title: title, PlaylistID: id})
	}
	if len(entries) == 0 {
		return nil, ErrNoPlaylistsSelected
	}
	return entries, nil
}

// CategoryRef is a denormalized snapshot of a catalog's first video
type CategoryRef struct {
	PlaylistID   string  `json:"playlist_id"`
	Title        *string `json:"title"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

// Equal reports whether both refs carry the same (playlist_id, title, thumbnail_url) tuple
func (c CategoryRef) Equal(other CategoryRef) bool {
	if c.PlaylistID != other.PlaylistID || c.ThumbnailURL != other.ThumbnailURL {
		return false
	}
	if c.Title == nil || other.Title == nil {
		return c.Title == nil && other.Title == nil
	}
	return *c.Title == *other.Title
}

// Section is a named grouping of playlist categories
type Section struct {
	Title      string        `json:"title"`
	Categories []CategoryRef `json:"categories"`
}

// Contains reports whether an equal category is already present
func (s *Section) Contains(ref CategoryRef) bool {
	for _, existing := range s.Categories {
		if existing.Equal(ref) {
			return true
		}
	}
	return false
}

// AddCategory appends ref unless an equal category exists.
// It returns true when the category was added.
func (s *Section) AddCategory(ref CategoryRef) bool {
	if s.Contains(ref) {
		return false
	}
	s.Categories = append(s.Categories, ref)
	return true
}

// SectionIndex is the persisted aggregate of all sections
type SectionIndex struct {
	Sections []Section `json:"sections"`
}

// NewSectionIndex returns an empty index
func NewSectionIndex() *SectionIndex {
	return &SectionIndex{Sections: []Section{}}
}

// Find returns the section with exactly the given title, or nil
func (idx *SectionIndex) Find(title string) *Section {
	for i := range idx.Sections {
		if idx.Sections[i].Title == title {
			return &idx.Sections[i]
		}
	}
	return nil
}

// FindOrCreate returns the section titled title, appending a new one if absent.
// The returned pointer is invalidated by the next FindOrCreate call.
func (idx *SectionIndex) FindOrCreate(title string) *Section {
	if s := idx.Find(title); s != nil {
		return s
	}
	idx.Sections = append(idx.Sections, Section{Title: title, Categories: []CategoryRef{}})
	return &idx.Sections[len(idx.Sections)-1]
}

// Normalize folds sections sharing a title into the first occurrence and
// drops duplicate categories, preserving order.
func (idx *SectionIndex) Normalize() {
	if idx.Sections == nil {
		idx.Sections = []Section{}
		return
	}

	merged := NewSectionIndex()
	for _, s := range idx.Sections {
		target := merged.FindOrCreate(s.Title)
		for _, ref := range s.Categories {
			target.AddCategory(ref)
		}
	}
	idx.Sections = merged.Sections
}
