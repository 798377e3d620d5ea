package ingest

import "errors"

// Ingestion errors
var (
	// ErrMalformedPlaylistURL indicates no playlist ID could be extracted from the URL
	ErrMalformedPlaylistURL = errors.New("malformed playlist url")

	// ErrCatalogWrite indicates the resolved catalog could not be persisted
	ErrCatalogWrite = errors.New("failed to write catalog")

	// ErrJobPanicked indicates an ingestion job aborted unexpectedly
	ErrJobPanicked = errors.New("ingestion job panicked")

	// ErrBatchNotFound indicates an unknown or expired batch ID
	ErrBatchNotFound = errors.New("batch not found")

	// ErrNoURLs indicates a batch was submitted without any playlist URLs
	ErrNoURLs = errors.New("no playlist urls given")

	// ErrTrackerStopped indicates a batch was submitted after shutdown began
	ErrTrackerStopped = errors.New("batch tracker stopped")
)

// IsMalformedURL checks if the error is a malformed playlist URL error
func IsMalformedURL(err error) bool {
	return errors.Is(err, ErrMalformedPlaylistURL)
}

// IsCatalogWrite checks if the error is a catalog persistence error
func IsCatalogWrite(err error) bool {
	return errors.Is(err, ErrCatalogWrite)
}
