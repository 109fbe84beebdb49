package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/driver"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/interpreter"
)

const cliToolVersion = "brewin-cli 0.4.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "test":
		return runTests(args[1:])
	case "fetch":
		return runFetch(args[1:])
	case "repl":
		return runRepl(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  brewin [run] [--trace] [--max-depth N] [file.br]")
	fmt.Fprintln(os.Stderr, "  brewin test [dir | suite.yml]")
	fmt.Fprintln(os.Stderr, "  brewin fetch [dir]")
	fmt.Fprintln(os.Stderr, "  brewin repl [--trace]")
	fmt.Fprintln(os.Stderr, "  brewin --version")
}

func runEntry(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	trace := fs.Bool("trace", false, "log statements, calls and scope changes to stderr")
	maxDepth := fs.Int("max-depth", 0, "maximum nested call depth (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		return 1
	}

	start := "."
	if fs.NArg() == 1 {
		start = filepath.Dir(fs.Arg(0))
	}
	manifest, err := loadManifestFrom(start)
	switch {
	case err == nil:
	case errors.Is(err, driver.ErrManifestNotFound):
		manifest = nil
	case fs.NArg() == 1:
		fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
		manifest = nil
	default:
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	var entryPath string
	if fs.NArg() == 1 {
		entryPath = fs.Arg(0)
	} else {
		if manifest == nil {
			fmt.Fprintf(os.Stderr, "brewin run requires a source file (%s not found)\n", driver.ManifestFileName)
			return 1
		}
		entryPath, err = manifest.MainPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
	}

	src, err := os.ReadFile(entryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", entryPath, err)
		return 1
	}

	opts := interpreterOptions(manifest, *trace, *maxDepth)
	host, closeHost := newRunHost(manifest)
	defer closeHost()

	if err := interpreter.New(host, opts...).Run(string(src)); err != nil {
		reportRunError(err)
		return 1
	}
	return 0
}

func interpreterOptions(manifest *driver.Manifest, trace bool, maxDepth int) []interpreter.Option {
	if manifest != nil {
		trace = trace || manifest.Trace
		if maxDepth == 0 {
			maxDepth = manifest.MaxCallDepth
		}
	}
	opts := []interpreter.Option{interpreter.WithMaxCallDepth(maxDepth)}
	if trace {
		opts = append(opts, interpreter.WithLogger(newTraceLogger(os.Stderr)))
	}
	return opts
}

func newTraceLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newRunHost picks where program input comes from: the manifest's scripted
// lines, an interactive prompt, or plain stdin.
func newRunHost(manifest *driver.Manifest) (interpreter.Host, func()) {
	if manifest != nil && len(manifest.Input) > 0 {
		in := strings.NewReader(strings.Join(manifest.Input, "\n") + "\n")
		return interpreter.NewConsoleHost(in, os.Stdout), func() {}
	}
	if stdinIsTerminal() {
		host := newLinerHost(os.Stdout)
		return host, host.Close
	}
	return interpreter.NewConsoleHost(os.Stdin, os.Stdout), func() {}
}

func reportRunError(err error) {
	var rt *interpreter.RuntimeError
	switch {
	case errors.As(err, &rt):
		fmt.Fprintln(os.Stderr, rt.Error())
	case errors.Is(err, interpreter.ErrCallDepthExceeded):
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		start = "."
	}
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	lockPath := driver.LockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Project != manifest.Name {
		return nil, fmt.Errorf("lockfile project %q does not match manifest name %q", lock.Project, manifest.Name)
	}
	return lock, nil
}

func runTests(args []string) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	trace := fs.Bool("trace", false, "log evaluation to stderr")
	maxDepth := fs.Int("max-depth", 0, "maximum nested call depth (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	target := "."
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}

	var suitePaths []string
	var manifest *driver.Manifest
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		suitePaths = []string{target}
	} else {
		m, err := loadManifestFrom(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return 1
		}
		manifest = m
		lock, err := loadLockfileForManifest(manifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		for _, name := range manifest.SuiteOrder {
			root, err := driver.SuiteRoot(manifest, manifest.Suites[name], lock)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return 1
			}
			paths, err := driver.CollectSuites(root)
			if err != nil {
				fmt.Fprintf(os.Stderr, "suite %q: %v\n", name, err)
				return 1
			}
			suitePaths = append(suitePaths, paths...)
		}
	}
	if len(suitePaths) == 0 {
		fmt.Fprintln(os.Stderr, "no fixture suites found")
		return 1
	}

	opts := interpreterOptions(manifest, *trace, *maxDepth)
	passed, failed := 0, 0
	for _, path := range suitePaths {
		suite, err := driver.LoadSuite(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		for _, result := range driver.RunSuite(suite, opts...) {
			if result.Passed {
				passed++
				fmt.Fprintf(os.Stdout, "PASS %s/%s\n", result.Suite, result.Case)
				continue
			}
			failed++
			fmt.Fprintf(os.Stdout, "FAIL %s/%s: %s\n", result.Suite, result.Case, result.Failure)
		}
	}
	fmt.Fprintf(os.Stdout, "%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	verbose := fs.Bool("v", false, "log git activity to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	start := "."
	if fs.NArg() > 0 {
		start = fs.Arg(0)
	}
	manifest, err := loadManifestFrom(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if lock == nil {
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = newTraceLogger(os.Stderr)
	}
	fetcher := driver.NewGitFetcher(driver.SuiteCacheDir(manifest), logger)
	for _, name := range manifest.SuiteOrder {
		suite := manifest.Suites[name]
		if !suite.IsGit() {
			continue
		}
		locked, _, err := fetcher.Fetch(suite)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch %s: %v\n", name, err)
			return 1
		}
		lock.Put(locked)
		fmt.Fprintf(os.Stdout, "fetched %s %s\n", locked.Name, locked.Version)
	}
	lock.Tool = cliToolVersion
	if err := driver.WriteLockfile(lock, driver.LockfilePath(manifest)); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}
