package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testEnv returns an Environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

// writeFile creates dir/rel with content, making parent directories.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("failed to read %s: %v", p, err)
	}
	return string(data)
}

const chartPage = `<!DOCTYPE html><html><head><title>t</title></head><body><canvas></canvas></body></html>`

const emptyPage = `<html><head></head><body></body></html>`
