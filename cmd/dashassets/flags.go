package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// errFlagHelp is returned by the parse functions for -h and --help.
var errFlagHelp = flag.ErrHelp

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config     string
	quiet      bool
	verbose    bool
	staticRoot string
}

// injectFlags holds flags for the inject command.
type injectFlags struct {
	common  commonFlags
	urlPath string
	output  string
	workers int
}

// planFlags holds flags for the plan command.
type planFlags struct {
	common  commonFlags
	urlPath string
	format  string
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common    commonFlags
	urlPath   string
	staticDir string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common       commonFlags
	addr         string
	staticDir    string
	templatesDir string
	verify       bool
	logLevel     string
	logFormat    string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file details")
	fs.StringVar(&f.staticRoot, "static-root", "", "URL prefix for asset URLs")
}

// newFlagSet returns a quiet FlagSet; parse errors are reported by the caller.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlagSet parses args and wraps failures in ErrUsage.
// flag.ErrHelp is returned unwrapped so callers can print help.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

func parseInjectFlags(args []string) (*injectFlags, []string, error) {
	f := &injectFlags{}
	fs := newFlagSet("inject")
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.urlPath, "path", "", "URL path of a file, or URL prefix of a directory")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: in place)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parsePlanFlags(args []string) (*planFlags, []string, error) {
	f := &planFlags{}
	fs := newFlagSet("plan")
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.urlPath, "path", "", "URL path the page is served at")
	fs.StringVarP(&f.format, "format", "f", formatText, "output format: text, yaml")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parseCheckFlags(args []string) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := newFlagSet("check")
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.urlPath, "path", "", "URL path the page is served at")
	fs.StringVar(&f.staticDir, "static-dir", "", "directory served under the static root")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parseServeFlags(args []string) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.addr, "addr", "", "listen address")
	fs.StringVar(&f.staticDir, "static-dir", "", "directory served under the static root")
	fs.StringVar(&f.templatesDir, "templates-dir", "", "page templates directory")
	fs.BoolVar(&f.verify, "verify", false, "log injected assets missing from the static directory")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: json, console")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}
