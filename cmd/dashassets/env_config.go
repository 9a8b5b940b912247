package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-dashassets/internal/config"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // DASHASSETS_CONFIG: config file name or path
	StaticRoot string // DASHASSETS_STATIC_ROOT: URL prefix for assets
	StaticDir  string // DASHASSETS_STATIC_DIR: directory served under the static root
	Addr       string // DASHASSETS_ADDR: server listen address
	LogLevel   string // DASHASSETS_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid DASHASSETS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DASHASSETS_CONFIG":      true,
	"DASHASSETS_STATIC_ROOT": true,
	"DASHASSETS_STATIC_DIR":  true,
	"DASHASSETS_ADDR":        true,
	"DASHASSETS_LOG_LEVEL":   true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("DASHASSETS_CONFIG"),
		StaticRoot: os.Getenv("DASHASSETS_STATIC_ROOT"),
		StaticDir:  os.Getenv("DASHASSETS_STATIC_DIR"),
		Addr:       os.Getenv("DASHASSETS_ADDR"),
		LogLevel:   os.Getenv("DASHASSETS_LOG_LEVEL"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized DASHASSETS_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DASHASSETS_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with every env var that is set.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.StaticRoot != "" {
		cfg.Loader.StaticRoot = env.StaticRoot
	}
	if env.StaticDir != "" {
		cfg.Server.StaticDir = env.StaticDir
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}

// loadConfig resolves the effective config for a command.
// The --config flag wins over DASHASSETS_CONFIG; with neither, defaults apply.
func loadConfig(common *commonFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, withConfigHint(err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if common.staticRoot != "" {
		cfg.Loader.StaticRoot = common.staticRoot
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
