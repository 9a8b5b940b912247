package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dashassets "github.com/alnah/go-dashassets"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input discovery and URL paths
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("single file keeps its path as URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		p := writeFile(t, dir, "pages/billing.html", emptyPage)

		files, err := discoverFiles(p, "", "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d files, want 1", len(files))
		}
		f := files[0]
		if f.OutputPath != p {
			t.Errorf("OutputPath = %q, want in place", f.OutputPath)
		}
		if !strings.HasSuffix(f.URLPath, "/pages/billing.html") || !strings.HasPrefix(f.URLPath, "/") {
			t.Errorf("URLPath = %q", f.URLPath)
		}
	})

	t.Run("single file with explicit path", func(t *testing.T) {
		t.Parallel()

		p := writeFile(t, t.TempDir(), "billing.html", emptyPage)
		files, err := discoverFiles(p, "", "/pages/billing.html")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if files[0].URLPath != "/pages/billing.html" {
			t.Errorf("URLPath = %q", files[0].URLPath)
		}
	})

	t.Run("directory maps relative paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "dashboard.html", emptyPage)
		writeFile(t, dir, "pages/tables.html", emptyPage)
		writeFile(t, dir, "css/site.css", "body{}")
		out := filepath.Join(t.TempDir(), "out")

		files, err := discoverFiles(dir, out, "/app/")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("got %d files, want 2 (css skipped)", len(files))
		}

		got := map[string]string{}
		for _, f := range files {
			got[f.URLPath] = f.OutputPath
		}
		if got["/app/dashboard.html"] != filepath.Join(out, "dashboard.html") {
			t.Errorf("dashboard mapping = %v", got)
		}
		if got["/app/pages/tables.html"] != filepath.Join(out, "pages", "tables.html") {
			t.Errorf("tables mapping = %v", got)
		}
	})

	t.Run("non html file", func(t *testing.T) {
		t.Parallel()

		p := writeFile(t, t.TempDir(), "notes.md", "# x")
		if _, err := discoverFiles(p, "", ""); !errors.Is(err, ErrNotHTML) {
			t.Errorf("error = %v, want ErrNotHTML", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(t.TempDir(), "nope.html"), "", "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestResolveFileOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		output string
		want   string
	}{
		{"in place", "site/a.html", "", "site/a.html"},
		{"explicit file", "site/a.html", "out/b.html", "out/b.html"},
		{"directory", "site/a.html", "out", filepath.Join("out", "a.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveFileOutput(tt.input, tt.output); got != tt.want {
				t.Errorf("resolveFileOutput(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, maxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, maxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
	if resolveWorkers(0) < 1 {
		t.Error("resolveWorkers(0) must be at least 1")
	}
}

// ---------------------------------------------------------------------------
// TestInjectBatch - Concurrent rewriting
// ---------------------------------------------------------------------------

func TestInjectBatch(t *testing.T) {
	t.Parallel()

	loader, err := dashassets.New()
	if err != nil {
		t.Fatalf("dashassets.New() error = %v", err)
	}

	t.Run("keeps order and isolates failures", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		files := []FileToInject{
			{InputPath: writeFile(t, dir, "a.html", chartPage), OutputPath: filepath.Join(dir, "out", "a.html"), URLPath: "/a.html"},
			{InputPath: filepath.Join(dir, "missing.html"), OutputPath: filepath.Join(dir, "out", "missing.html"), URLPath: "/missing.html"},
			{InputPath: writeFile(t, dir, "pages/b.html", emptyPage), OutputPath: filepath.Join(dir, "out", "pages", "b.html"), URLPath: "/pages/b.html"},
		}

		results := injectBatch(context.Background(), loader, files, 2)
		if len(results) != 3 {
			t.Fatalf("got %d results", len(results))
		}

		if results[0].Err != nil || len(results[0].Requests) != 4 {
			t.Errorf("a.html: err=%v requests=%d, want 4", results[0].Err, len(results[0].Requests))
		}
		if !errors.Is(results[1].Err, ErrReadHTML) {
			t.Errorf("missing.html: err = %v, want ErrReadHTML", results[1].Err)
		}
		if results[2].Err != nil || len(results[2].Requests) != 2 {
			t.Errorf("b.html: err=%v requests=%d, want 2", results[2].Err, len(results[2].Requests))
		}

		out := readFile(t, filepath.Join(dir, "out", "a.html"))
		if !strings.Contains(out, `<script src="/static/js/chart-2.js" type="text/javascript" async="true"></script></head>`) {
			t.Errorf("a.html output:\n%s", out)
		}
	})

	t.Run("canceled context skips files", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dir := t.TempDir()
		files := []FileToInject{{InputPath: writeFile(t, dir, "a.html", chartPage), OutputPath: filepath.Join(dir, "a.html")}}
		results := injectBatch(ctx, loader, files, 1)
		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", results[0].Err)
		}
		if readFile(t, files[0].InputPath) != chartPage {
			t.Error("canceled run modified the file")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunInject - Command end to end
// ---------------------------------------------------------------------------

func TestRunInject(t *testing.T) {
	t.Parallel()

	t.Run("directory in place", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dash := writeFile(t, dir, "dashboard.html", chartPage)
		billing := writeFile(t, dir, "pages/billing.html", emptyPage)

		env, stdout, stderr := testEnv()
		if err := runInject(context.Background(), []string{dir, "-w", "2"}, env); err != nil {
			t.Fatalf("runInject() error = %v (stderr: %s)", err, stderr.String())
		}

		if !strings.Contains(readFile(t, dash), "chart-1.js") {
			t.Error("dashboard not injected")
		}
		b := readFile(t, billing)
		if strings.Contains(b, "chart-1.js") || !strings.Contains(b, "perfect-scrollbar.js") {
			t.Errorf("billing output:\n%s", b)
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("single file to output with static root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeFile(t, dir, "index.html", emptyPage)
		out := filepath.Join(dir, "build", "index.html")

		env, stdout, _ := testEnv()
		err := runInject(context.Background(), []string{in, "-o", out, "--static-root", "/assets", "-q"}, env)
		if err != nil {
			t.Fatalf("runInject() error = %v", err)
		}
		if !strings.Contains(readFile(t, out), `href="/assets/css/perfect-scrollbar.css"`) {
			t.Error("static root not applied")
		}
		if readFile(t, in) != emptyPage {
			t.Error("input modified when -o is set")
		}
		if stdout.Len() != 0 {
			t.Errorf("quiet run wrote stdout: %q", stdout.String())
		}
	})

	t.Run("verbose prints urls", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeFile(t, dir, "index.html", emptyPage)

		env, stdout, _ := testEnv()
		if err := runInject(context.Background(), []string{in, "--path", "/pages/x.html", "-v"}, env); err != nil {
			t.Fatalf("runInject() error = %v", err)
		}
		if !strings.Contains(stdout.String(), "[/pages/x.html]") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runInject(context.Background(), []string{t.TempDir()}, env)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		if err := runInject(context.Background(), []string{"a.html", "b.html"}, env); !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("bad worker count", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		if err := runInject(context.Background(), []string{"a.html", "-w", "-3"}, env); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
		}
	})
}
