package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	verbose := slices.ContainsFunc(os.Args[1:], func(a string) bool {
		return a == "-v" || a == "--verbose"
	})

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error

	switch cmd {
	case "inject":
		err = runInject(ctx, rest, env)
	case "plan":
		err = runPlan(ctx, rest, env)
	case "check":
		err = runCheck(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "dashassets %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		if !runHelp(rest, env) {
			return ExitUsage
		}
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
