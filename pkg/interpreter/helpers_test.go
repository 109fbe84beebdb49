package interpreter

import (
	"strings"
	"testing"
)

// runSource runs src with scripted input and returns every printed line.
func runSource(t *testing.T, src string, input ...string) ([]string, error) {
	t.Helper()
	host := NewBufferHost(input...)
	err := New(host).Run(src)
	return host.Lines(), err
}

func mustRun(t *testing.T, src string, input ...string) []string {
	t.Helper()
	out, err := runSource(t, src, input...)
	if err != nil {
		t.Fatalf("run failed: %v\noutput so far: %q", err, out)
	}
	return out
}

func expectOutput(t *testing.T, src string, want ...string) {
	t.Helper()
	got := mustRun(t, src)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func expectErrorKind(t *testing.T, src string, want ErrorKind) *RuntimeError {
	t.Helper()
	_, err := runSource(t, src)
	if err == nil {
		t.Fatalf("expected %s error, run succeeded", want)
	}
	kind, ok := KindOf(err)
	if !ok || kind != want {
		t.Fatalf("expected %s error, got %v", want, err)
	}
	return err.(*RuntimeError)
}

// program wraps statements in a main function.
func program(body string, extra ...string) string {
	return strings.Join(extra, "\n") + "\nfunc main() {\n" + body + "\n}\n"
}
