// Package assets provides rooted access to the dashboard's static directory.
//
// A Store wraps one directory on disk. Every lookup takes a slash-separated
// path relative to that directory, the same path that follows the static
// root in an asset URL:
//
//	/static/js/tooltips.js  ->  {dir}/js/tooltips.js
//
// # Security
//
// Paths are validated with fs.ValidPath, so "..", absolute paths and empty
// elements are rejected before touching the filesystem. Symlinks are resolved
// and the real path must stay inside the store directory.
package assets
