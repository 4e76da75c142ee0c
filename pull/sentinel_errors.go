package pull

import "errors"

// Fetch errors
var (
	ErrFetchFailed        = errors.New("failed to fetch schema from Baserow")
	ErrTableFieldsMissing = errors.New("table fields could not be fetched")
)

// Configuration errors
var ErrInvalidFetchPolicy = errors.New("invalid fetch error policy")

// YAML generation errors
var (
	ErrYAMLGenerationFailed  = errors.New("YAML generation failed")
	ErrFileWriteFailed       = errors.New("failed to write file")
	ErrDirectoryCreateFailed = errors.New("failed to create directory")
)
