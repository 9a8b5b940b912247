// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForConfigNotFound suggests --config and the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "dashassets") && strings.Contains(p, string(os.PathSeparator)) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingAssets points at the static directory when planned assets do not resolve.
func ForMissingAssets(staticDir string) string {
	if staticDir == "" {
		return format("pass --static-dir pointing at the directory served under the static root")
	}
	return format("files are resolved under " + staticDir + "; check --static-root matches the URL prefix")
}

// ForStaticDir returns hints for an unusable static directory.
func ForStaticDir() string {
	return format("set --static-dir or DASHASSETS_STATIC_DIR to an existing directory")
}

// ForInvalidFeature points at the feature table in the config file.
func ForInvalidFeature() string {
	return format("check loader.features in the config; selectors use CSS syntax, paths are relative to the static root")
}

// ForAddrInUse returns hints for a listen address already in use.
func ForAddrInUse(addr string) string {
	return formatHints([]string{
		"another process is listening on " + addr,
		"use --addr or DASHASSETS_ADDR to pick a different port",
	})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
