package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/alnah/go-dashassets/internal/fileutil"
	"github.com/alnah/go-dashassets/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxRootLength     = 200
	MaxSegmentLength  = 100
	MaxNameLength     = 100
	MaxSelectorLength = 500
	MaxPathLength     = 1024
	MaxAddrLength     = 255
)

// Config holds all configuration for the loader, server and logging.
type Config struct {
	Loader LoaderConfig `yaml:"loader"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// LoaderConfig defines page context and feature table options.
type LoaderConfig struct {
	StaticRoot   string          `yaml:"staticRoot"`   // URL prefix for assets (default: "/static/")
	PagesSegment string          `yaml:"pagesSegment"` // Path segment marking sub pages (default: "pages")
	DefaultPage  string          `yaml:"defaultPage"`  // Page name outside the pages segment (default: "dashboard")
	Features     []FeatureConfig `yaml:"features"`     // Empty = built-in table
	Disable      []string        `yaml:"disable"`      // Feature names removed from the table
}

// FeatureConfig is one feature table row.
type FeatureConfig struct {
	Name     string        `yaml:"name"`
	Selector string        `yaml:"selector"` // Empty = always loaded
	Assets   []AssetConfig `yaml:"assets"`
}

// AssetConfig is one asset of a feature.
type AssetConfig struct {
	Kind  string `yaml:"kind"` // "script" or "stylesheet"
	Path  string `yaml:"path"` // Relative to staticRoot
	Async bool   `yaml:"async"`
}

// ServerConfig defines the dashboard server options.
type ServerConfig struct {
	Addr            string `yaml:"addr"`            // Listen address (default: ":8080")
	StaticDir       string `yaml:"staticDir"`       // Directory served under staticRoot
	TemplatesDir    string `yaml:"templatesDir"`    // Page templates directory
	Verify          bool   `yaml:"verify"`          // Log assets missing from staticDir
	ShutdownTimeout string `yaml:"shutdownTimeout"` // Graceful shutdown budget (default: "10s")
}

// LogConfig defines structured logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // json, console (default: json)
}

// Defaults.
const (
	DefaultStaticRoot      = "/static/"
	DefaultPagesSegment    = "pages"
	DefaultPage            = "dashboard"
	DefaultAddr            = ":8080"
	DefaultStaticDir       = "static"
	DefaultTemplatesDir    = "templates"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Loader: LoaderConfig{
			StaticRoot:   DefaultStaticRoot,
			PagesSegment: DefaultPagesSegment,
			DefaultPage:  DefaultPage,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			StaticDir:       DefaultStaticDir,
			TemplatesDir:    DefaultTemplatesDir,
			ShutdownTimeout: DefaultShutdownTimeout.String(),
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// ShutdownBudget parses ShutdownTimeout, falling back to the default when empty.
func (s ServerConfig) ShutdownBudget() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return DefaultShutdownTimeout
	}
	return d
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("loader.staticRoot", c.Loader.StaticRoot, MaxRootLength); err != nil {
		return err
	}
	if root := c.Loader.StaticRoot; root != "" && !strings.HasPrefix(root, "/") {
		return fmt.Errorf("%w: loader.staticRoot %q must start with /", ErrInvalidValue, root)
	}
	if err := validateRouteValue("loader.staticRoot", c.Loader.StaticRoot); err != nil {
		return err
	}

	if err := validateFieldLength("loader.pagesSegment", c.Loader.PagesSegment, MaxSegmentLength); err != nil {
		return err
	}
	if strings.Contains(c.Loader.PagesSegment, "/") {
		return fmt.Errorf("%w: loader.pagesSegment %q must be a single segment", ErrInvalidValue, c.Loader.PagesSegment)
	}
	if err := validateRouteValue("loader.pagesSegment", c.Loader.PagesSegment); err != nil {
		return err
	}
	if err := validateFieldLength("loader.defaultPage", c.Loader.DefaultPage, MaxNameLength); err != nil {
		return err
	}
	if strings.Contains(c.Loader.DefaultPage, "/") {
		return fmt.Errorf("%w: loader.defaultPage %q must be a single segment", ErrInvalidValue, c.Loader.DefaultPage)
	}
	if err := validateRouteValue("loader.defaultPage", c.Loader.DefaultPage); err != nil {
		return err
	}

	for i, f := range c.Loader.Features {
		prefix := fmt.Sprintf("loader.features[%d]", i)
		if err := validateFieldLength(prefix+".name", f.Name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".selector", f.Selector, MaxSelectorLength); err != nil {
			return err
		}
		for j, a := range f.Assets {
			apath := fmt.Sprintf("%s.assets[%d]", prefix, j)
			if err := validateFieldLength(apath+".path", a.Path, MaxPathLength); err != nil {
				return err
			}
			switch strings.ToLower(a.Kind) {
			case "script", "stylesheet":
			default:
				return fmt.Errorf("%w: %s.kind %q (must be script or stylesheet)", ErrInvalidValue, apath, a.Kind)
			}
		}
	}

	for i, name := range c.Loader.Disable {
		if err := validateFieldLength(fmt.Sprintf("loader.disable[%d]", i), name, MaxNameLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.staticDir", c.Server.StaticDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.templatesDir", c.Server.TemplatesDir, MaxPathLength); err != nil {
		return err
	}
	if t := c.Server.ShutdownTimeout; t != "" {
		if d, err := time.ParseDuration(t); err != nil || d <= 0 {
			return fmt.Errorf("%w: server.shutdownTimeout %q", ErrInvalidValue, t)
		}
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "json", "console":
		default:
			return fmt.Errorf("%w: log.format %q (must be json or console)", ErrInvalidValue, c.Log.Format)
		}
	}

	return nil
}

// validateRouteValue rejects characters that are not allowed in URL route patterns.
func validateRouteValue(fieldName, value string) error {
	if strings.ContainsAny(value, "{}") || strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %s %q contains braces or whitespace", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched as a name in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yamlutil.ReadStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UserConfigDir is the directory searched after the current directory.
// Tests replace it.
var UserConfigDir = func() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dashassets"), nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions .yaml then .yml, in the current directory then UserConfigDir.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userDir, err := UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
