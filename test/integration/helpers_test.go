//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testEnv is an action project inside a fresh git repository.
type testEnv struct {
	ProjectDir string
	Repo       *git.Repository
}

// setupTestEnv creates the project directory and initializes git in it. The
// ACTIONGEN_* variables the loader reads are cleared for the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, key := range []string{"ACTIONGEN_NAME", "ACTIONGEN_REPOSITORY", "ACTIONGEN_MIN_NODE_VERSION"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init: %v", err)
	}
	return &testEnv{ProjectDir: dir, Repo: repo}
}

// commitAll stages every file and commits with msg.
func (e *testEnv) commitAll(t *testing.T, msg string) plumbing.Hash {
	t.Helper()

	wt, err := e.Repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("git add: %v", err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "github-actions",
			Email: "github-actions@github.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("git commit: %v", err)
	}
	return hash
}

func (e *testEnv) tag(t *testing.T, name string, hash plumbing.Hash) {
	t.Helper()
	if _, err := e.Repo.CreateTag(name, hash, nil); err != nil {
		t.Fatalf("git tag %s: %v", name, err)
	}
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.ProjectDir, filepath.FromSlash(rel))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("expected content to contain %q, got:\n%s", substr, content)
	}
}
