package section

import (
	"sync"

	"github.com/stwalsh4118/khelwa/internal/models"
)

// DraftMark identifies the end of a drafts snapshot
type DraftMark uint64

// Drafts holds section entries that have been added but not yet saved.
// Every entry gets a sequence number; head is the number of entries[0].
type Drafts struct {
	mu      sync.Mutex
	entries []models.SectionEntry
	head    uint64
}

// NewDrafts creates an empty draft list
func NewDrafts() *Drafts {
	return &Drafts{entries: []models.SectionEntry{}}
}

// Add appends entries to the pending list
func (d *Drafts) Add(entries ...models.SectionEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entries...)
}

// List returns a copy of the pending entries in insertion order
func (d *Drafts) List() []models.SectionEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.SectionEntry{}, d.entries...)
}

// Snapshot returns a copy of the pending entries and a mark for RemoveThrough
func (d *Drafts) Snapshot() ([]models.SectionEntry, DraftMark) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.SectionEntry{}, d.entries...), DraftMark(d.head + uint64(len(d.entries)))
}

// RemoveThrough drops the entries of the snapshot that produced mark.
// Entries already removed or cleared since are not touched again, and
// entries added after the snapshot survive.
func (d *Drafts) RemoveThrough(mark DraftMark) {
	d.mu.Lock()
	defer d.mu.Unlock()

	end := uint64(mark)
	if end <= d.head {
		return
	}
	n := end - d.head
	if n >= uint64(len(d.entries)) {
		d.head += uint64(len(d.entries))
		d.entries = []models.SectionEntry{}
		return
	}
	d.head = end
	d.entries = append([]models.SectionEntry{}, d.entries[n:]...)
}

// Clear drops all pending entries
func (d *Drafts) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.head += uint64(len(d.entries))
	d.entries = []models.SectionEntry{}
}

// Len returns the number of pending entries
func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
