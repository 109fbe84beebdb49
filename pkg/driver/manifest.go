package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "brewin.yml"

// ErrManifestNotFound is returned when no brewin.yml exists in a directory
// or any of its parents.
var ErrManifestNotFound = errors.New("manifest: brewin.yml not found")

// Manifest represents the parsed contents of brewin.yml.
type Manifest struct {
	Path         string
	Name         string
	Main         string
	Trace        bool
	MaxCallDepth int
	Input        []string
	Suites       map[string]*SuiteSpec
	SuiteOrder   []string
}

// SuiteSpec locates a fixture suite: a local path, or a git repository
// pinned by rev, tag or branch with an optional subdirectory.
type SuiteSpec struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Dir    string
}

// IsGit reports whether the suite is fetched from a repository.
func (s *SuiteSpec) IsGit() bool { return s != nil && s.Git != "" }

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses brewin.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from start until it finds brewin.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// MainPath resolves the entry program relative to the manifest.
func (m *Manifest) MainPath() (string, error) {
	if m.Main == "" {
		return "", fmt.Errorf("manifest %s does not name a main program", m.Path)
	}
	return m.resolve(m.Main), nil
}

// LocalSuitePath resolves a path suite relative to the manifest.
func (m *Manifest) LocalSuitePath(suite *SuiteSpec) string {
	return m.resolve(suite.Path)
}

func (m *Manifest) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(rel))
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "max_call_depth must not be negative")
	}
	for _, name := range m.SuiteOrder {
		for _, issue := range m.Suites[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suites.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SuiteSpec) validate() []string {
	var errs []string
	switch {
	case s.Path == "" && s.Git == "":
		errs = append(errs, "must specify path or git")
	case s.Path != "" && s.Git != "":
		errs = append(errs, "path suites cannot also specify git")
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if pin != "" {
			pins++
		}
	}
	if s.Git != "" && pins != 1 {
		errs = append(errs, "git suites require exactly one of rev, tag or branch")
	}
	if s.Git == "" && (pins > 0 || s.Dir != "") {
		errs = append(errs, "rev, tag, branch and dir apply only to git suites")
	}
	return errs
}

type manifestFile struct {
	Name         string   `yaml:"name"`
	Main         string   `yaml:"main"`
	Trace        bool     `yaml:"trace"`
	MaxCallDepth int      `yaml:"max_call_depth"`
	Input        []string `yaml:"input"`
	Suites       suiteMap `yaml:"suites"`
}

type suiteYAML struct {
	Path   string `yaml:"path"`
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

// suiteMap keeps suites in manifest order.
type suiteMap struct {
	items []suiteMapEntry
}

type suiteMapEntry struct {
	name string
	spec *suiteYAML
}

func (sm *suiteMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		sm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: suites must be a mapping")
	}
	items := make([]suiteMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: suites must not use empty keys")
		}
		entry := new(suiteYAML)
		if err := value.Content[i+1].Decode(entry); err != nil {
			return fmt.Errorf("manifest: suite %q: %w", key, err)
		}
		items = append(items, suiteMapEntry{name: key, spec: entry})
	}
	sm.items = items
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Main:         strings.TrimSpace(mf.Main),
		Trace:        mf.Trace,
		MaxCallDepth: mf.MaxCallDepth,
		Input:        append([]string(nil), mf.Input...),
		Suites:       make(map[string]*SuiteSpec, len(mf.Suites.items)),
		SuiteOrder:   make([]string, 0, len(mf.Suites.items)),
	}
	for _, item := range mf.Suites.items {
		if _, dup := result.Suites[item.name]; !dup {
			result.SuiteOrder = append(result.SuiteOrder, item.name)
		}
		result.Suites[item.name] = &SuiteSpec{
			Name:   item.name,
			Path:   strings.TrimSpace(item.spec.Path),
			Git:    strings.TrimSpace(item.spec.Git),
			Rev:    strings.TrimSpace(item.spec.Rev),
			Tag:    strings.TrimSpace(item.spec.Tag),
			Branch: strings.TrimSpace(item.spec.Branch),
			Dir:    strings.TrimSpace(item.spec.Dir),
		}
	}
	return result
}
