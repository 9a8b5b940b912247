package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrInvalidBasePath indicates the configured directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrInvalidAssetPath indicates a relative path that is empty or not slash-clean.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
