package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/driver"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/interpreter"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	return captureOutput(t, func() int { return run(args) })
}

func captureOutput(t *testing.T, fn func() int) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := fn()

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}

func TestVersionAndUsage(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"--version"})
	if code != 0 || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("version: code=%d stdout=%q", code, stdout)
	}
	code, _, stderr := captureCLI(t, nil)
	if code != 1 || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("usage: code=%d stderr=%q", code, stderr)
	}
}

func TestRunManifestMain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, driver.ManifestFileName), `
name: demo
main: src/main.br
input:
  - "20"
`)
	writeFile(t, filepath.Join(root, "src", "main.br"), `
func main() {
  n = inputi();
  print("got ", n + 1);
}
`)

	code, stdout, stderr := captureCLI(t, []string{"run", filepath.Join(root, "src", "main.br")})
	if code != 0 {
		t.Fatalf("run exited %d: %s", code, stderr)
	}
	if stdout != "got 21\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunReportsRuntimeErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, driver.ManifestFileName), `
name: demo
input: ["unused"]
`)
	program := filepath.Join(root, "bad.br")
	writeFile(t, program, `
func main() {
  print("start");
  print(missing);
}
`)

	code, stdout, stderr := captureCLI(t, []string{program})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stdout != "start\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.HasPrefix(stderr, "NAME error at 3:9") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunMaxDepthFlag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, driver.ManifestFileName), `
name: demo
input: ["unused"]
`)
	program := filepath.Join(root, "deep.br")
	writeFile(t, program, `
func r(n) { return r(n + 1); }
func main() { r(0); }
`)
	code, _, stderr := captureCLI(t, []string{"run", "--max-depth", "25", program})
	if code != 1 || !strings.Contains(stderr, "fatal: maximum call depth exceeded") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func TestRunWithoutFileOrManifest(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 || !strings.Contains(stderr, "requires a source file") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func TestTestCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, driver.ManifestFileName), `
name: demo
suites:
  basics:
    path: fixtures
`)
	writeFile(t, filepath.Join(root, "fixtures", "basics.yml"), `
name: basics
cases:
  - name: adds
    source: "func main() { print(1 + 2); }"
    output: ["3"]
  - name: divides by zero
    source: "func main() { print(1 / 0); }"
    error: FAULT
`)

	code, stdout, stderr := captureCLI(t, []string{"test", root})
	if code != 0 {
		t.Fatalf("test exited %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	for _, want := range []string{"PASS basics/adds", "PASS basics/divides by zero", "2 passed, 0 failed"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}

	failing := filepath.Join(root, "failing.yml")
	writeFile(t, failing, `
cases:
  - name: wrong
    source: "func main() { print(1); }"
    output: ["2"]
`)
	code, stdout, _ = captureCLI(t, []string{"test", failing})
	if code != 1 || !strings.Contains(stdout, "FAIL failing/wrong") || !strings.Contains(stdout, "0 passed, 1 failed") {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}
}

func TestTestCommandRequiresFetch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, driver.ManifestFileName), `
name: demo
suites:
  remote:
    git: https://example.com/suites.git
    branch: main
`)
	code, _, stderr := captureCLI(t, []string{"test", root})
	if code != 1 || !strings.Contains(stderr, "brewin fetch") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func TestLoadLockfileForManifest(t *testing.T) {
	root := t.TempDir()
	manifest := &driver.Manifest{Path: filepath.Join(root, driver.ManifestFileName), Name: "demo"}

	lock, err := loadLockfileForManifest(manifest)
	if err != nil || lock != nil {
		t.Fatalf("missing lockfile: lock=%#v err=%v", lock, err)
	}

	other := driver.NewLockfile("other", cliToolVersion)
	if err := driver.WriteLockfile(other, driver.LockfilePath(manifest)); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}
	if _, err := loadLockfileForManifest(manifest); err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("expected project mismatch, got %v", err)
	}
}

func TestInterpreterOptionsFromManifest(t *testing.T) {
	manifest := &driver.Manifest{Name: "demo", MaxCallDepth: 5}
	src := "func r() { return r(); }\nfunc main() { r(); }"
	err := interpreter.New(interpreter.NewBufferHost(), interpreterOptions(manifest, false, 0)...).Run(src)
	if err == nil || !strings.Contains(err.Error(), "maximum call depth") {
		t.Fatalf("manifest depth not applied: %v", err)
	}
}

func TestEvalReplInput(t *testing.T) {
	session := interpreter.New(interpreter.NewBufferHost()).NewSession()
	code, stdout, _ := captureOutput(t, func() int {
		if err := evalReplInput(session, "func sq(n) { return n * n; }"); err != nil {
			t.Errorf("define: %v", err)
		}
		if err := evalReplInput(session, "x = sq(7);"); err != nil {
			t.Errorf("assign: %v", err)
		}
		if err := evalReplInput(session, "return x + 1;"); err != nil {
			t.Errorf("return: %v", err)
		}
		return 0
	})
	if code != 0 || stdout != "=> 50\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if err := evalReplInput(session, "y = nope;"); err == nil {
		t.Fatalf("expected NAME error")
	}
}
