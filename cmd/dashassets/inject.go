package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxWorkers bounds --workers.
const maxWorkers = 64

// Sentinel errors for inject operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNotHTML            = errors.New("file must have .html or .htm extension")
	ErrReadHTML           = errors.New("failed to read HTML file")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInjectFailed       = errors.New("injection failed")
)

// FileToInject is one page to rewrite.
type FileToInject struct {
	InputPath  string
	OutputPath string
	URLPath    string // path the page is served at
}

// InjectResult holds the outcome of a single file.
type InjectResult struct {
	File     FileToInject
	Requests []dashassets.AssetRequest
	Err      error
	Duration time.Duration
}

func runInject(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseInjectFlags(args)
	if errors.Is(err, errFlagHelp) {
		printInjectUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("%w: inject needs a file or directory", ErrNoInput)
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: inject takes one file or directory, got %d", ErrUsage, len(rest))
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	loader, err := buildLoader(cfg.Loader)
	if err != nil {
		return err
	}

	files, err := discoverFiles(rest[0], flags.output, flags.urlPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .html files under %s", ErrNoInput, rest[0])
	}

	start := env.Now()
	workers := resolveWorkers(flags.workers)
	results := injectBatch(ctx, loader, files, workers)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "%d files, %d workers, %v\n", len(files), workers, env.Now().Sub(start).Round(time.Millisecond))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrInjectFailed, failed, len(results))
	}
	return nil
}

// discoverFiles lists the pages to rewrite.
// For a single file, urlPath is its exact URL path (default: the file path).
// For a directory, urlPath is the prefix the directory is served under
// (default "/") and every .html file below it is included.
func discoverFiles(inputPath, output, urlPath string) ([]FileToInject, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsHTML(inputPath) {
			return nil, fmt.Errorf("%w: %s", ErrNotHTML, inputPath)
		}
		if urlPath == "" {
			urlPath = fileURLPath(inputPath)
		}
		return []FileToInject{{
			InputPath:  inputPath,
			OutputPath: resolveFileOutput(inputPath, output),
			URLPath:    urlPath,
		}}, nil
	}

	prefix := "/" + strings.Trim(urlPath, "/")
	var files []FileToInject
	err = filepath.WalkDir(inputPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		if d.IsDir() || !fileutil.IsHTML(p) {
			return nil
		}

		rel, err := filepath.Rel(inputPath, p)
		if err != nil {
			return err
		}
		out := p
		if output != "" {
			out = filepath.Join(output, rel)
		}
		files = append(files, FileToInject{
			InputPath:  p,
			OutputPath: out,
			URLPath:    path.Join(prefix, filepath.ToSlash(rel)),
		})
		return nil
	})

	return files, err
}

// fileURLPath derives a URL path from a file path so that a file under a
// "pages" directory resolves as a sub page.
func fileURLPath(p string) string {
	return "/" + strings.TrimLeft(filepath.ToSlash(filepath.Clean(p)), "/")
}

// resolveFileOutput returns the output path for a single input file.
// An output with an HTML extension is a file; anything else is a directory.
func resolveFileOutput(inputPath, output string) string {
	switch {
	case output == "":
		return inputPath
	case fileutil.IsHTML(output):
		return output
	default:
		return filepath.Join(output, filepath.Base(inputPath))
	}
}

func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers maps 0 to GOMAXPROCS, which automaxprocs has already tuned.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// injectBatch rewrites files with at most workers running at once.
// A failing file never stops the others; results keep input order.
func injectBatch(ctx context.Context, loader *dashassets.Loader, files []FileToInject, workers int) []InjectResult {
	results := make([]InjectResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = InjectResult{File: f, Err: err}
				return nil
			}
			results[i] = injectFile(ctx, loader, f)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func injectFile(ctx context.Context, loader *dashassets.Loader, f FileToInject) InjectResult {
	start := time.Now()
	result := InjectResult{File: f}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadHTML, err)
		result.Duration = time.Since(start)
		return result
	}

	res, err := loader.Inject(ctx, string(content), f.URLPath)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: creating output directory: %v", ErrWriteHTML, err)
		result.Duration = time.Since(start)
		return result
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(res.HTML), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Requests = res.Requests
	result.Duration = time.Since(start)
	return result
}

// printResults outputs per-file results and returns the failure count.
func printResults(results []InjectResult, quiet, verbose bool, env *Environment) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.File.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s [%s] (%d assets, %v)\n",
				r.File.InputPath, r.File.OutputPath, r.File.URLPath, len(r.Requests), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Injected %s (%d assets)\n", r.File.OutputPath, len(r.Requests))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	return failed
}
