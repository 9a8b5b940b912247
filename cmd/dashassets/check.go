package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/hints"
)

func runCheck(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseCheckFlags(args)
	if errors.Is(err, errFlagHelp) {
		printCheckUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	file, urlPath, err := singlePage(rest, flags.urlPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	if flags.staticDir != "" {
		cfg.Server.StaticDir = flags.staticDir
	}

	loader, err := buildLoader(cfg.Loader)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(file) // #nosec G304 -- user-provided page
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadHTML, err)
	}

	pc, reqs, err := loader.PlanHTML(ctx, string(content), urlPath)
	if err != nil {
		return err
	}

	verifier, err := dashassets.NewDirVerifier(cfg.Server.StaticDir, pc.StaticRoot)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForStaticDir())
	}

	err = verifier.Verify(ctx, reqs)
	var missing *dashassets.MissingAssetsError
	if errors.As(err, &missing) {
		for _, url := range missing.URLs {
			fmt.Fprintf(env.Stderr, "MISSING %s\n", url)
		}
		return fmt.Errorf("%w%s", err, hints.ForMissingAssets(cfg.Server.StaticDir))
	}
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "OK %s: %d assets resolved for page %q\n", file, len(reqs), pc.Page)
	}
	return nil
}
