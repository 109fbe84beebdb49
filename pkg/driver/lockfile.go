package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName sits next to brewin.yml and pins fetched suites.
const LockfileName = "brewin.lock"

// Lockfile models the brewin.lock contents.
type Lockfile struct {
	Path      string
	Project   string
	Generated string
	Tool      string
	Suites    []*LockedSuite
}

// LockedSuite records where a git suite was fetched from and which commit
// was checked out.
type LockedSuite struct {
	Name    string
	Version string
	Source  string
	Commit  string
}

// NewLockfile constructs a lockfile with metadata seeded for project.
func NewLockfile(project, tool string) *Lockfile {
	return &Lockfile{
		Project:   strings.TrimSpace(project),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Suites:    []*LockedSuite{},
	}
}

// LockfilePath returns the lockfile location for a manifest.
func LockfilePath(m *Manifest) string {
	return filepath.Join(m.Dir(), LockfileName)
}

// LoadLockfile parses brewin.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the pinned entry for a suite.
func (l *Lockfile) Find(name string) (*LockedSuite, bool) {
	for _, s := range l.Suites {
		if s != nil && s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Put adds or replaces the entry for suite.Name.
func (l *Lockfile) Put(suite *LockedSuite) {
	for idx, s := range l.Suites {
		if s != nil && s.Name == suite.Name {
			l.Suites[idx] = suite
			return
		}
	}
	l.Suites = append(l.Suites, suite)
}

func (l *Lockfile) normalize() {
	l.Project = strings.TrimSpace(l.Project)
	l.Tool = strings.TrimSpace(l.Tool)
	kept := l.Suites[:0]
	for _, s := range l.Suites {
		if s == nil {
			continue
		}
		s.Name = strings.TrimSpace(s.Name)
		s.Version = strings.TrimSpace(s.Version)
		s.Source = strings.TrimSpace(s.Source)
		s.Commit = strings.TrimSpace(s.Commit)
		kept = append(kept, s)
	}
	l.Suites = kept
	sort.SliceStable(l.Suites, func(i, j int) bool {
		return l.Suites[i].Name < l.Suites[j].Name
	})
}

type lockfileDisk struct {
	Project   string          `yaml:"project"`
	Generated string          `yaml:"generated"`
	Tool      string          `yaml:"tool"`
	Suites    []lockfileSuite `yaml:"suites"`
}

type lockfileSuite struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
	Commit  string `yaml:"commit"`
}

func (l *Lockfile) toDisk() lockfileDisk {
	suites := make([]lockfileSuite, 0, len(l.Suites))
	for _, s := range l.Suites {
		suites = append(suites, lockfileSuite{
			Name:    s.Name,
			Version: s.Version,
			Source:  s.Source,
			Commit:  s.Commit,
		})
	}
	return lockfileDisk{
		Project:   l.Project,
		Generated: l.Generated,
		Tool:      l.Tool,
		Suites:    suites,
	}
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Project:   d.Project,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Suites:    make([]*LockedSuite, 0, len(d.Suites)),
	}
	for _, s := range d.Suites {
		lock.Suites = append(lock.Suites, &LockedSuite{
			Name:    s.Name,
			Version: s.Version,
			Source:  s.Source,
			Commit:  s.Commit,
		})
	}
	lock.normalize()
	return lock
}
