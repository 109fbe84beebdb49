package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrSuiteNotFetched is returned when a git suite has no checkout yet.
var ErrSuiteNotFetched = errors.New("suite not fetched")

// SuiteCacheDir is where git suites are checked out for a project.
func SuiteCacheDir(m *Manifest) string {
	return filepath.Join(m.Dir(), ".brewin", "suites")
}

// GitFetcher clones fixture suites into a cache keyed by suite name and
// pinned version.
type GitFetcher struct {
	CacheDir string
	Logger   *slog.Logger
}

func NewGitFetcher(cacheDir string, logger *slog.Logger) *GitFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitFetcher{CacheDir: cacheDir, Logger: logger}
}

// Fetch makes sure suite is checked out and returns its lock entry together
// with the checkout directory.
func (g *GitFetcher) Fetch(suite *SuiteSpec) (*LockedSuite, string, error) {
	if !suite.IsGit() {
		return nil, "", fmt.Errorf("suite %q: git URL required", suite.Name)
	}
	baseDir := filepath.Join(g.CacheDir, sanitizePathSegment(suite.Name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, "", err
	}

	if rev := suite.Rev; rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			g.Logger.Debug("suite cached", slog.String("suite", suite.Name), slog.String("rev", rev))
			return &LockedSuite{
				Name:    suite.Name,
				Version: rev,
				Source:  fmt.Sprintf("git+%s@%s", suite.Git, rev),
				Commit:  rev,
			}, existing, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return nil, "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, "", err
	}

	g.Logger.Debug("cloning suite", slog.String("suite", suite.Name), slog.String("url", suite.Git))
	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: suite.Git})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, "", fmt.Errorf("git clone %s: %w", suite.Git, err)
	}

	version, commit, err := checkoutSuite(repo, suite)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, "", err
	}
	locked := &LockedSuite{
		Name:    suite.Name,
		Version: version,
		Source:  fmt.Sprintf("git+%s@%s", suite.Git, commit),
		Commit:  commit,
	}

	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return locked, targetDir, nil
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, "", err
	}
	return locked, targetDir, nil
}

// checkoutSuite resolves the suite's pin in repo and checks that commit
// out, returning the pinned version label and the commit hash.
func checkoutSuite(repo *git.Repository, suite *SuiteSpec) (string, string, error) {
	revision, descriptor, err := gitRevisionFromSpec(suite)
	if err != nil {
		return "", "", err
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	return gitPinnedVersion(descriptor, hash.String()), hash.String(), nil
}

// SuiteRoot returns the directory holding a suite's fixture files: the
// local path for path suites, the cached checkout for git suites.
func SuiteRoot(m *Manifest, suite *SuiteSpec, lock *Lockfile) (string, error) {
	if !suite.IsGit() {
		return m.LocalSuitePath(suite), nil
	}
	if lock == nil {
		return "", fmt.Errorf("suite %q: %w (run `brewin fetch`)", suite.Name, ErrSuiteNotFetched)
	}
	entry, ok := lock.Find(suite.Name)
	if !ok {
		return "", fmt.Errorf("suite %q: %w (run `brewin fetch`)", suite.Name, ErrSuiteNotFetched)
	}
	dir := filepath.Join(SuiteCacheDir(m), sanitizePathSegment(suite.Name), sanitizePathSegment(entry.Version))
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("suite %q: %w (run `brewin fetch`)", suite.Name, ErrSuiteNotFetched)
	}
	if suite.Dir != "" {
		dir = filepath.Join(dir, filepath.FromSlash(suite.Dir))
	}
	return dir, nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func gitRevisionFromSpec(suite *SuiteSpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(suite.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(suite.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(suite.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("git suites require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
