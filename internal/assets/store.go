package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store resolves static asset paths inside a single directory.
type Store struct {
	basePath string
}

// NewStore creates a Store for dir.
// Returns ErrInvalidBasePath if dir is not a valid, readable directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks so containment checks compare real paths
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &Store{basePath: absPath}, nil
}

// Dir returns the absolute store directory.
func (s *Store) Dir() string {
	return s.basePath
}

// Exists reports whether rel names a regular file in the store.
// Directories report false. Invalid or escaping paths return an error.
func (s *Store) Exists(rel string) (bool, error) {
	filePath, err := s.resolve(rel)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return info.Mode().IsRegular(), nil
}

// Open opens rel for reading.
func (s *Store) Open(rel string) (*os.File, error) {
	filePath, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath) // #nosec G304 -- path validated by resolve
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return f, nil
}

// FS returns a read-only fs.FS over the store with the same containment
// rules as Open. Escaping paths fail with fs.ErrPermission.
func (s *Store) FS() fs.FS {
	return storeFS{s: s}
}

// resolve validates rel and returns the contained absolute path.
func (s *Store) resolve(rel string) (string, error) {
	if err := ValidatePath(rel); err != nil {
		return "", err
	}

	filePath := filepath.Join(s.basePath, filepath.FromSlash(rel))
	if err := s.verifyPathContainment(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// verifyPathContainment ensures the real path of filePath is within basePath.
// Symlinks are resolved so a link cannot point outside the store.
func (s *Store) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file cannot be resolved; the prefix check still applies
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, s.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// ValidatePath checks that rel is a clean, slash-separated relative path.
func ValidatePath(rel string) error {
	if rel == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidAssetPath)
	}
	if strings.Contains(rel, "\\") || !fs.ValidPath(rel) || rel == "." {
		return fmt.Errorf("%w: %q", ErrInvalidAssetPath, rel)
	}
	return nil
}

type storeFS struct {
	s *Store
}

func (f storeFS) Open(name string) (fs.File, error) {
	if name == "." {
		return os.Open(f.s.basePath)
	}

	file, err := f.s.Open(name)
	if err != nil {
		if errors.Is(err, ErrPathTraversal) || errors.Is(err, ErrInvalidAssetPath) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
		}
		return nil, err
	}
	return file, nil
}
