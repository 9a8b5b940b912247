package dashassets

import "errors"

// Sentinel errors for library operations.
var (
	ErrParseHTML  = errors.New("failed to parse HTML")
	ErrRenderHTML = errors.New("failed to render HTML")

	// Feature table validation errors.
	ErrInvalidFeature = errors.New("invalid feature")

	// Asset verification errors.
	ErrAssetMissing      = errors.New("asset not found")
	ErrOutsideStaticRoot = errors.New("asset URL outside static root")
	ErrNoStore           = errors.New("verifier has no asset store")
)
