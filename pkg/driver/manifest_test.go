package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestFileName)
	writeFile(t, path, `
name: demo
main: src/main.br
trace: true
max_call_depth: 200
input:
  - "4"
  - "5"
suites:
  local:
    path: tests
  remote:
    git: https://example.com/suites.git
    tag: v1.0.0
    dir: brewin
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "demo" || !m.Trace || m.MaxCallDepth != 200 {
		t.Fatalf("unexpected manifest %#v", m)
	}
	if strings.Join(m.Input, ",") != "4,5" {
		t.Fatalf("Input = %v", m.Input)
	}
	if strings.Join(m.SuiteOrder, ",") != "local,remote" {
		t.Fatalf("SuiteOrder = %v", m.SuiteOrder)
	}
	mainPath, err := m.MainPath()
	if err != nil {
		t.Fatalf("MainPath: %v", err)
	}
	if want := filepath.Join(root, "src", "main.br"); mainPath != want {
		t.Fatalf("MainPath = %q, want %q", mainPath, want)
	}
	local := m.Suites["local"]
	if local.IsGit() || m.LocalSuitePath(local) != filepath.Join(root, "tests") {
		t.Fatalf("unexpected local suite %#v", local)
	}
	remote := m.Suites["remote"]
	if !remote.IsGit() || remote.Tag != "v1.0.0" || remote.Dir != "brewin" {
		t.Fatalf("unexpected remote suite %#v", remote)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, `
name: demo
entry: main.br
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, `
max_call_depth: -1
suites:
  empty: {}
  both:
    path: x
    git: https://example.com/x.git
    rev: abc
  unpinned:
    git: https://example.com/y.git
  pinned_path:
    path: z
    branch: main
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	wants := []string{
		"name must be provided",
		"max_call_depth must not be negative",
		"suites.empty: must specify path or git",
		"suites.both: path suites cannot also specify git",
		"suites.unpinned: git suites require exactly one of rev, tag or branch",
		"suites.pinned_path: rev, tag, branch and dir apply only to git suites",
	}
	if len(verr.Issues) != len(wants) {
		t.Fatalf("issues = %q", verr.Issues)
	}
	for i, want := range wants {
		if verr.Issues[i] != want {
			t.Fatalf("issue %d = %q, want %q", i, verr.Issues[i], want)
		}
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestFileName), "name: demo")
	child := filepath.Join(root, "src", "nested")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	program := filepath.Join(child, "main.br")
	writeFile(t, program, "func main() { }")

	for _, start := range []string{child, program} {
		found, err := FindManifest(start)
		if err != nil {
			t.Fatalf("FindManifest(%s): %v", start, err)
		}
		if want := filepath.Join(root, ManifestFileName); found != want {
			t.Fatalf("FindManifest = %q, want %q", found, want)
		}
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestMainPathRequiresMain(t *testing.T) {
	m := &Manifest{Path: filepath.Join(t.TempDir(), ManifestFileName), Name: "demo"}
	if _, err := m.MainPath(); err == nil {
		t.Fatalf("expected error without main")
	}
}
