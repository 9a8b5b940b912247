package dashassets

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-dashassets/internal/assets"
)

// AssetStore reports whether a path relative to the static root exists.
type AssetStore interface {
	Exists(rel string) (bool, error)
}

// Compile-time interface check.
var _ AssetStore = (*assets.Store)(nil)

// Verifier confirms that planned assets resolve in a store.
// It never changes what is injected; it only surfaces errors.
type Verifier struct {
	Store      AssetStore
	StaticRoot string // defaults to DefaultStaticRoot
}

// NewDirVerifier creates a Verifier backed by the static directory dir.
func NewDirVerifier(dir, staticRoot string) (*Verifier, error) {
	store, err := assets.NewStore(dir)
	if err != nil {
		return nil, err
	}
	return &Verifier{Store: store, StaticRoot: staticRoot}, nil
}

// MissingAssetsError lists every request that did not resolve.
type MissingAssetsError struct {
	URLs []string
}

func (e *MissingAssetsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAssetMissing, strings.Join(e.URLs, ", "))
}

// Is makes errors.Is(err, ErrAssetMissing) match.
func (e *MissingAssetsError) Is(target error) bool {
	return target == ErrAssetMissing
}

// Verify checks every request. Missing assets are collected into a single
// *MissingAssetsError; a URL outside the static root or a store failure
// stops verification immediately.
func (v *Verifier) Verify(ctx context.Context, reqs []AssetRequest) error {
	if v == nil || v.Store == nil {
		return ErrNoStore
	}

	root := v.StaticRoot
	if root == "" {
		root = DefaultStaticRoot
	}

	var missing []string
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, ok := strings.CutPrefix(req.URL, root)
		if !ok {
			return fmt.Errorf("%w: %s", ErrOutsideStaticRoot, req.URL)
		}

		exists, err := v.Store.Exists(rel)
		if err != nil {
			return fmt.Errorf("checking %s: %w", req.URL, err)
		}
		if !exists {
			missing = append(missing, req.URL)
		}
	}

	if len(missing) > 0 {
		return &MissingAssetsError{URLs: missing}
	}
	return nil
}
