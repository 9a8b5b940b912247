package main

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/assets"
	"github.com/alnah/go-dashassets/internal/config"
	"github.com/alnah/go-dashassets/internal/hints"
	"github.com/alnah/go-dashassets/internal/logging"
	"github.com/alnah/go-dashassets/internal/metrics"
	"github.com/alnah/go-dashassets/internal/server"
)

func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseServeFlags(args)
	if errors.Is(err, errFlagHelp) {
		printServeUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, env.Stderr)
	defer func() { _ = logger.Sync() }()

	loader, err := buildLoader(cfg.Loader)
	if err != nil {
		return err
	}

	static, err := assets.NewStore(cfg.Server.StaticDir)
	if err != nil {
		return fmt.Errorf("static dir: %w%s", err, hints.ForStaticDir())
	}
	templates, err := assets.NewStore(cfg.Server.TemplatesDir)
	if err != nil {
		return fmt.Errorf("templates dir: %w", err)
	}

	var verifier *dashassets.Verifier
	if cfg.Server.Verify {
		verifier = &dashassets.Verifier{Store: static, StaticRoot: loader.Context("/").StaticRoot}
	}

	srv, err := server.New(server.Options{
		Loader:       loader,
		Verifier:     verifier,
		StaticRoot:   loader.Context("/").StaticRoot,
		PagesSegment: cfg.Loader.PagesSegment,
		DefaultPage:  cfg.Loader.DefaultPage,
		Static:       static.FS(),
		Templates:    templates.FS(),
		Logger:       logger,
		Metrics:      metrics.New(),
	})
	if err != nil {
		return err
	}

	logger.Info("starting dashboard server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("static_dir", static.Dir()),
		zap.String("templates_dir", templates.Dir()),
		zap.Bool("verify", cfg.Server.Verify),
		zap.Int("features", len(loader.Features())),
	)

	err = srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownBudget())
	if errors.Is(err, syscall.EADDRINUSE) {
		return fmt.Errorf("%w%s", err, hints.ForAddrInUse(cfg.Server.Addr))
	}
	return err
}

// mergeServeFlags applies explicitly set flags over the config.
func mergeServeFlags(flags *serveFlags, cfg *config.Config) {
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.staticDir != "" {
		cfg.Server.StaticDir = flags.staticDir
	}
	if flags.templatesDir != "" {
		cfg.Server.TemplatesDir = flags.templatesDir
	}
	if flags.verify {
		cfg.Server.Verify = true
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.common.quiet {
		cfg.Log.Level = "error"
	}
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	}
}
