package section

import "errors"

// Aggregation errors
var (
	// ErrIndexRead indicates the persisted section index could not be loaded
	ErrIndexRead = errors.New("failed to read section index")

	// ErrIndexWrite indicates the merged section index could not be saved
	ErrIndexWrite = errors.New("failed to write section index")
)
