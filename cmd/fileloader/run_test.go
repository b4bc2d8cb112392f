package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Stdout:  &stdout,
		Stderr:  &stderr,
		Logger:  zap.NewNop(),
		NewHost: newHost,
	}, &stdout, &stderr
}

// writeProject creates a manifest next to app.js and theme.css.
func writeProject(t *testing.T, files string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"app.js":    "window.ok = true;",
		"theme.css": "body {}",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	path := filepath.Join(dir, "load.yaml")
	if err := os.WriteFile(path, []byte("files:\n"+files), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	env, stdout, _ := testEnv()
	if err := run(context.Background(), []string{"--version"}, env); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "fileloader "+Version) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_NoInput(t *testing.T) {
	t.Setenv("FILELOADER_CONFIG", "")
	env, _, _ := testEnv()
	err := run(context.Background(), nil, env)
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("run() error = %v, want usage error", err)
	}
}

func TestRun_DryRunAllLoaded(t *testing.T) {
	manifest := writeProject(t, "  - app.js\n  - file: theme.css\n")

	env, stdout, _ := testEnv()
	err := run(context.Background(), []string{"--dry-run", "-c", manifest}, env)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "OK      app.js") || !strings.Contains(out, "OK      theme.css") {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(out, "2 loaded, 0 failed, 0 pending") {
		t.Errorf("summary missing: %q", out)
	}
}

func TestRun_DryRunFailures(t *testing.T) {
	manifest := writeProject(t, "  - app.js\n  - gone.js\n  - logo.png\n  - 7\n")

	env, _, stderr := testEnv()
	err := run(context.Background(), []string{"--dry-run", "--config", manifest}, env)
	if !errors.Is(err, ErrResourcesFailed) {
		t.Fatalf("run() error = %v, want ErrResourcesFailed", err)
	}
	if exitCodeFor(err) != ExitResources {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitResources)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("unsupported resource hint missing: %v", err)
	}
	errOut := stderr.String()
	if !strings.Contains(errOut, "FAILED  gone.js") || !strings.Contains(errOut, "FAILED  logo.png") {
		t.Errorf("stderr = %q", errOut)
	}
	// The numeric entry is dropped with a warning.
	if !strings.Contains(errOut, "dropping file entry") {
		t.Errorf("sanitizer warning missing: %q", errOut)
	}
}

func TestRun_DryRunJSON(t *testing.T) {
	manifest := writeProject(t, "  - app.js\n")

	env, stdout, _ := testEnv()
	if err := run(context.Background(), []string{"--dry-run", "--json", "-q", "-c", manifest}, env); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var report jsonReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not JSON: %v (%q)", err, stdout.String())
	}
	if len(report.Batches) != 1 || !report.Batches[0].Complete || report.Summary.Loaded != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestRun_MissingManifestHint(t *testing.T) {
	env, _, _ := testEnv()
	err := run(context.Background(), []string{"-c", "no-such-fileloader-manifest"}, env)
	if exitCodeFor(err) != ExitUsage {
		t.Fatalf("run() error = %v, want usage error", err)
	}
	if !strings.Contains(err.Error(), "hint: use --config") {
		t.Errorf("config hint missing: %v", err)
	}
}

func TestRun_HostError(t *testing.T) {
	manifest := writeProject(t, "  - app.js\n")
	boom := errors.New("no browser")

	env, _, _ := testEnv()
	env.NewHost = func(*settings, *Environment) (Host, error) { return nil, boom }

	if err := run(context.Background(), []string{"-c", manifest}, env); !errors.Is(err, boom) {
		t.Errorf("run() error = %v, want %v", err, boom)
	}
}

func TestRun_InvalidLogFormat(t *testing.T) {
	env, _, _ := testEnv()
	err := run(context.Background(), []string{"--dry-run", "--log-format", "xml", "a.js"}, env)
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("run() error = %v, want usage error", err)
	}
}
