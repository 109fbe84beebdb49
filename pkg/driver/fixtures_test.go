package driver

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/interpreter"
)

func TestLoadSuite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "programs", "echo.br"), `
func main() {
  print(inputs());
}
`)
	path := filepath.Join(root, "basic.yml")
	writeFile(t, path, `
cases:
  - name: inline
    source: |
      func main() { print(1 + 1); }
    output: ["2"]
  - file: programs/echo.br
    input: ["hi"]
    output: ["hi"]
  - name: fails
    source: "func main() { x = 1 / 0; }"
    error: fault
`)
	suite, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("LoadSuite: %v", err)
	}
	if suite.Name != "basic" || len(suite.Cases) != 3 {
		t.Fatalf("unexpected suite %#v", suite)
	}
	if suite.Cases[1].Name != "case_2" || !strings.Contains(suite.Cases[1].Source, "inputs()") {
		t.Fatalf("file case not loaded: %#v", suite.Cases[1])
	}
	if suite.Cases[2].Error != "FAULT" {
		t.Fatalf("error kind should be normalised, got %q", suite.Cases[2].Error)
	}
	for _, result := range RunSuite(suite) {
		if !result.Passed {
			t.Fatalf("%s failed: %s", result.Case, result.Failure)
		}
	}
}

func TestLoadSuiteValidation(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bad.yml")
	writeFile(t, path, `
name: bad
cases:
  - name: neither
  - name: both
    source: "func main() { }"
    file: main.br
  - name: kind
    source: "func main() { }"
    error: OOPS
`)
	_, err := LoadSuite(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// "both" also fails to read main.br.
	if len(verr.Issues) != 4 {
		t.Fatalf("issues = %q", verr.Issues)
	}
}

func TestRunCaseFailures(t *testing.T) {
	cases := []struct {
		tc      *Case
		failure string
	}{
		{&Case{Name: "output", Source: `func main() { print("a"); }`, Output: []string{"b"}}, "output mismatch"},
		{&Case{Name: "unexpected", Source: `func main() { print(x); }`}, "unexpected error"},
		{&Case{Name: "wrong kind", Source: `func main() { print(x); }`, Error: "TYPE"}, "expected TYPE error"},
		{&Case{Name: "no error", Source: `func main() { }`, Error: "NAME"}, "expected NAME error"},
		{&Case{Name: "not syntax", Source: `func main() { }`, Error: SyntaxErrorKind}, "expected syntax error"},
	}
	for _, c := range cases {
		result := RunCase("suite", c.tc)
		if result.Passed || !strings.Contains(result.Failure, c.failure) {
			t.Fatalf("%s: Failure = %q, want %q", c.tc.Name, result.Failure, c.failure)
		}
	}
}

func TestRunCasePassesOptions(t *testing.T) {
	tc := &Case{
		Name:   "deep",
		Source: "func r(n) { return r(n + 1); }\nfunc main() { r(0); }",
	}
	result := RunCase("suite", tc, interpreter.WithMaxCallDepth(10))
	if !errors.Is(result.Err, interpreter.ErrCallDepthExceeded) {
		t.Fatalf("expected call depth error, got %v", result.Err)
	}
}

func TestRunCaseSyntaxError(t *testing.T) {
	tc := &Case{Name: "syntax", Source: "func main() { x = ; }", Error: SyntaxErrorKind}
	if result := RunCase("suite", tc); !result.Passed {
		t.Fatalf("unexpected failure %s", result.Failure)
	}
}

func TestCollectSuites(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestFileName), "name: demo")
	writeFile(t, filepath.Join(root, "b.yml"), "cases: []")
	writeFile(t, filepath.Join(root, "nested", "a.yaml"), "cases: []")
	writeFile(t, filepath.Join(root, ".brewin", "hidden.yml"), "cases: []")
	writeFile(t, filepath.Join(root, "notes.txt"), "skip")

	paths, err := CollectSuites(root)
	if err != nil {
		t.Fatalf("CollectSuites: %v", err)
	}
	want := []string{filepath.Join(root, "b.yml"), filepath.Join(root, "nested", "a.yaml")}
	if strings.Join(paths, "|") != strings.Join(want, "|") {
		t.Fatalf("paths = %q, want %q", paths, want)
	}

	single, err := CollectSuites(want[0])
	if err != nil || len(single) != 1 || single[0] != want[0] {
		t.Fatalf("CollectSuites(file) = %v, %v", single, err)
	}
}
