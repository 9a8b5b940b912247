package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/fileutil"
	"github.com/alnah/go-dashassets/internal/yamlutil"
)

// Output formats for plan.
const (
	formatText = "text"
	formatYAML = "yaml"
)

// ErrInvalidFormat is returned for an unknown --format value.
var ErrInvalidFormat = errors.New("invalid output format")

// pagePlan is the plan command's report.
type pagePlan struct {
	Path       string        `yaml:"path"`
	Page       string        `yaml:"page"`
	BasePath   string        `yaml:"basePath"`
	StaticRoot string        `yaml:"staticRoot"`
	Requests   []planRequest `yaml:"requests"`
}

type planRequest struct {
	Feature string `yaml:"feature"`
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	Async   bool   `yaml:"async,omitempty"`
}

func newPagePlan(urlPath string, pc dashassets.PageContext, reqs []dashassets.AssetRequest) pagePlan {
	p := pagePlan{
		Path:       urlPath,
		Page:       pc.Page,
		BasePath:   pc.BasePath,
		StaticRoot: pc.StaticRoot,
		Requests:   make([]planRequest, 0, len(reqs)),
	}
	for _, r := range reqs {
		p.Requests = append(p.Requests, planRequest{
			Feature: r.Feature,
			Kind:    string(r.Kind),
			URL:     r.URL,
			Async:   r.Async,
		})
	}
	return p
}

func runPlan(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parsePlanFlags(args)
	if errors.Is(err, errFlagHelp) {
		printPlanUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if flags.format != formatText && flags.format != formatYAML {
		return fmt.Errorf("%w: %q (must be text or yaml)", ErrInvalidFormat, flags.format)
	}

	file, urlPath, err := singlePage(rest, flags.urlPath)
	if err != nil {
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

	content, err := os.ReadFile(file) // #nosec G304 -- user-provided page
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadHTML, err)
	}

	pc, reqs, err := loader.PlanHTML(ctx, string(content), urlPath)
	if err != nil {
		return err
	}

	return writePlan(env.Stdout, flags.format, newPagePlan(urlPath, pc, reqs))
}

// singlePage validates a single HTML argument and its URL path.
func singlePage(args []string, urlPath string) (file, resolved string, err error) {
	if len(args) == 0 {
		return "", "", fmt.Errorf("%w: a page file is required", ErrNoInput)
	}
	if len(args) > 1 {
		return "", "", fmt.Errorf("%w: expected one page file, got %d", ErrUsage, len(args))
	}
	file = args[0]
	if !fileutil.IsHTML(file) {
		return "", "", fmt.Errorf("%w: %s", ErrNotHTML, file)
	}
	if urlPath == "" {
		urlPath = fileURLPath(file)
	}
	return file, urlPath, nil
}

func writePlan(w io.Writer, format string, p pagePlan) error {
	if format == formatYAML {
		out, err := yamlutil.Encode(p)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	fmt.Fprintf(w, "path:       %s\n", p.Path)
	fmt.Fprintf(w, "page:       %s\n", p.Page)
	fmt.Fprintf(w, "basePath:   %s\n", p.BasePath)
	fmt.Fprintf(w, "staticRoot: %s\n", p.StaticRoot)
	fmt.Fprintln(w)
	for i, r := range p.Requests {
		async := ""
		if r.Async {
			async = " async"
		}
		fmt.Fprintf(w, "%3d. %-10s %s%s (%s)\n", i+1, r.Kind, r.URL, async, r.Feature)
	}
	return nil
}
