package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/assets"
)

func TestRunCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := writeFile(t, dir, "site/dashboard.html", chartPage)

	static := t.TempDir()
	writeFile(t, static, "css/perfect-scrollbar.css", "")
	writeFile(t, static, "js/perfect-scrollbar.js", "")
	writeFile(t, static, "js/chart-1.js", "")

	t.Run("reports missing assets", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv()
		err := runCheck(context.Background(), []string{page, "--static-dir", static}, env)
		if !errors.Is(err, dashassets.ErrAssetMissing) {
			t.Fatalf("error = %v, want ErrAssetMissing", err)
		}
		if exitCodeFor(err) != ExitMissing {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitMissing)
		}
		if !strings.Contains(stderr.String(), "MISSING /static/js/chart-2.js") {
			t.Errorf("stderr = %q", stderr.String())
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error %q has no hint", err)
		}
	})

	t.Run("page with all assets passes", func(t *testing.T) {
		t.Parallel()

		empty := writeFile(t, t.TempDir(), "pages/billing.html", emptyPage)

		env, stdout, _ := testEnv()
		if err := runCheck(context.Background(), []string{empty, "--static-dir", static}, env); err != nil {
			t.Fatalf("runCheck() error = %v", err)
		}
		if !strings.Contains(stdout.String(), `2 assets resolved for page "billing"`) {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("bad static dir", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runCheck(context.Background(), []string{page, "--static-dir", dir + "/nope"}, env)
		if !errors.Is(err, assets.ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}
