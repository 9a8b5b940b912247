package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dashassets <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  inject     Append page assets to HTML files")
	fmt.Fprintln(w, "  plan       Show the page context and assets for a page")
	fmt.Fprintln(w, "  check      Verify that a page's assets exist in the static directory")
	fmt.Fprintln(w, "  serve      Serve the dashboard with asset injection")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'dashassets help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --static-root <url>   URL prefix for asset URLs (default /static/)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file details")
}

// printInjectUsage prints usage for the inject command.
func printInjectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dashassets inject <file|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Append the scripts and stylesheets each page needs to its <head>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file|dir    HTML file, or directory scanned for .html files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --path <url>          URL path of a file, or URL prefix of a directory")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default: in place)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPlanUsage prints usage for the plan command.
func printPlanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dashassets plan <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the page context and the ordered asset requests without writing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --path <url>          URL path the page is served at")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: text, yaml")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dashassets check <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plan a page and verify every asset exists. Exits 4 if any is missing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --path <url>          URL path the page is served at")
	fmt.Fprintln(w, "      --static-dir <dir>    Directory served under the static root")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dashassets serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve static assets and page templates, injecting assets into every HTML response.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --static-dir <dir>    Directory served under the static root")
	fmt.Fprintln(w, "      --templates-dir <dir> Page templates directory")
	fmt.Fprintln(w, "      --verify              Log injected assets missing from the static directory")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Log format: json, console")
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DASHASSETS_CONFIG, DASHASSETS_STATIC_ROOT, DASHASSETS_STATIC_DIR,")
	fmt.Fprintln(w, "  DASHASSETS_ADDR, DASHASSETS_LOG_LEVEL")
}

// runHelp prints help for a specific command.
// Returns false for an unknown command.
func runHelp(args []string, env *Environment) bool {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return true
	}

	switch args[0] {
	case "inject":
		printInjectUsage(env.Stdout)
	case "plan":
		printPlanUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: dashassets version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: dashassets help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return false
	}
	return true
}
