package main

import (
	"errors"
	"os"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/assets"
	"github.com/alnah/go-dashassets/internal/config"
	"github.com/alnah/go-dashassets/internal/server"
)

// Exit codes for the dashassets CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or feature table
	ExitIO      = 3 // File not found, permission denied, listen failure
	ExitMissing = 4 // Planned assets missing from the static directory
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Missing assets (exit 4)
	if errors.Is(err, dashassets.ErrAssetMissing) {
		return ExitMissing
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNotHTML) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, dashassets.ErrInvalidFeature) ||
		errors.Is(err, dashassets.ErrOutsideStaticRoot) ||
		errors.Is(err, server.ErrInvalidRoute) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadHTML) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, server.ErrListen) {
		return ExitIO
	}

	return ExitGeneral
}
