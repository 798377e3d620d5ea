package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stwalsh4118/khelwa/internal/models"
)

func TestDrafts(t *testing.T) {
	d := NewDrafts()
	assert.Empty(t, d.List())

	d.Add(models.SectionEntry{Title: "Math", PlaylistID: "PL1"}, models.SectionEntry{Title: "Math", PlaylistID: "PL2"})
	listed, mark := d.Snapshot()
	d.Add(models.SectionEntry{Title: "Art", PlaylistID: "PL3"})

	// Mutating the returned copy does not affect the drafts
	listed[0].Title = "changed"
	assert.Equal(t, "Math", d.List()[0].Title)

	d.RemoveThrough(mark)
	assert.Equal(t, []models.SectionEntry{{Title: "Art", PlaylistID: "PL3"}}, d.List())

	d.Clear()
	assert.Zero(t, d.Len())
	assert.NotNil(t, d.List())
}

func TestDrafts_RemoveThroughAfterClearKeepsNewEntries(t *testing.T) {
	d := NewDrafts()
	d.Add(models.SectionEntry{Title: "Math", PlaylistID: "PL1"}, models.SectionEntry{Title: "Math", PlaylistID: "PL2"})
	_, mark := d.Snapshot()

	d.Clear()
	d.Add(models.SectionEntry{Title: "Art", PlaylistID: "PL3"}, models.SectionEntry{Title: "Art", PlaylistID: "PL4"})

	d.RemoveThrough(mark)
	assert.Equal(t, []models.SectionEntry{
		{Title: "Art", PlaylistID: "PL3"},
		{Title: "Art", PlaylistID: "PL4"},
	}, d.List())
}

func TestDrafts_RemoveThroughTwice(t *testing.T) {
	d := NewDrafts()
	d.Add(models.SectionEntry{Title: "Math", PlaylistID: "PL1"})
	_, first := d.Snapshot()
	_, second := d.Snapshot()
	d.Add(models.SectionEntry{Title: "Art", PlaylistID: "PL2"})

	d.RemoveThrough(first)
	d.RemoveThrough(second)
	assert.Equal(t, []models.SectionEntry{{Title: "Art", PlaylistID: "PL2"}}, d.List())
}
