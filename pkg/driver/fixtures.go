package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/interpreter"
	"github.com/RyanBatesMiller/Brewin-Interpreter/pkg/parser"
)

// SyntaxErrorKind is the expected error value for cases that must fail to
// parse.
const SyntaxErrorKind = "SYNTAX"

// Suite is one fixture file: a list of programs with their scripted input
// and expected results.
type Suite struct {
	Path  string
	Name  string
	Cases []*Case
}

// Case is a single program run.
type Case struct {
	Name   string
	Source string
	File   string
	Input  []string
	Output []string
	// Error is empty when the run must succeed, otherwise NAME, TYPE, FAULT
	// or SYNTAX.
	Error string
}

// CaseResult records the outcome of one case.
type CaseResult struct {
	Suite   string
	Case    string
	Passed  bool
	Output  []string
	Err     error
	Failure string
}

type suiteFile struct {
	Name  string     `yaml:"name"`
	Cases []caseYAML `yaml:"cases"`
}

type caseYAML struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	File   string   `yaml:"file"`
	Input  []string `yaml:"input"`
	Output []string `yaml:"output"`
	Error  string   `yaml:"error"`
}

// LoadSuite parses a fixture file. Program files referenced by `file` are
// read relative to the suite.
func LoadSuite(path string) (*Suite, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("suite: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw suiteFile
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("suite: parse %s: %w", absPath, err)
	}

	suite := &Suite{Path: absPath, Name: strings.TrimSpace(raw.Name)}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	}
	var issues []string
	for idx, c := range raw.Cases {
		tc := &Case{
			Name:   strings.TrimSpace(c.Name),
			Source: c.Source,
			File:   strings.TrimSpace(c.File),
			Input:  c.Input,
			Output: c.Output,
			Error:  strings.ToUpper(strings.TrimSpace(c.Error)),
		}
		if tc.Name == "" {
			tc.Name = fmt.Sprintf("case_%d", idx+1)
		}
		if (tc.Source == "") == (tc.File == "") {
			issues = append(issues, fmt.Sprintf("cases[%d] (%s): exactly one of source or file is required", idx, tc.Name))
		}
		if tc.Error != "" && tc.Error != SyntaxErrorKind {
			if _, ok := interpreter.ParseErrorKind(tc.Error); !ok {
				issues = append(issues, fmt.Sprintf("cases[%d] (%s): unknown error kind %q", idx, tc.Name, c.Error))
			}
		}
		if tc.File != "" {
			data, err := os.ReadFile(filepath.Join(filepath.Dir(absPath), filepath.FromSlash(tc.File)))
			if err != nil {
				issues = append(issues, fmt.Sprintf("cases[%d] (%s): %v", idx, tc.Name, err))
			}
			tc.Source = string(data)
		}
		suite.Cases = append(suite.Cases, tc)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("suite %s: %w", absPath, &ValidationError{Issues: issues})
	}
	return suite, nil
}

// CollectSuites returns the fixture files at root: root itself when it is a
// file, otherwise every .yml/.yaml file below it in lexical order.
func CollectSuites(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			if d.Name() != ManifestFileName {
				paths = append(paths, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// RunSuite executes every case on a fresh interpreter.
func RunSuite(suite *Suite, opts ...interpreter.Option) []CaseResult {
	results := make([]CaseResult, 0, len(suite.Cases))
	for _, tc := range suite.Cases {
		results = append(results, RunCase(suite.Name, tc, opts...))
	}
	return results
}

// RunCase executes a single case and checks its output and error kind.
func RunCase(suiteName string, tc *Case, opts ...interpreter.Option) CaseResult {
	host := interpreter.NewBufferHost(tc.Input...)
	err := interpreter.New(host, opts...).Run(tc.Source)
	result := CaseResult{Suite: suiteName, Case: tc.Name, Output: host.Lines(), Err: err}
	result.Failure = checkCase(tc, result.Output, err)
	result.Passed = result.Failure == ""
	return result
}

func checkCase(tc *Case, output []string, err error) string {
	switch {
	case tc.Error == "" && err != nil:
		return fmt.Sprintf("unexpected error: %v", err)
	case tc.Error == SyntaxErrorKind:
		var syntaxErr *parser.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return fmt.Sprintf("expected syntax error, got %v", err)
		}
	case tc.Error != "":
		kind, ok := interpreter.KindOf(err)
		if !ok || kind.String() != tc.Error {
			return fmt.Sprintf("expected %s error, got %v", tc.Error, err)
		}
	}
	if tc.Output == nil && tc.Error != "" {
		return ""
	}
	if !slices.Equal(output, tc.Output) {
		return fmt.Sprintf("output mismatch:\n  want %q\n  got  %q", tc.Output, output)
	}
	return ""
}
