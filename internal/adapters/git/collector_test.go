package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}

	run("init", "-b", "main")
	writeFile(t, dir, "README.md", "# test repo\n")
	writeFile(t, dir, "main.tf", "resource \"aws_s3_bucket\" \"b\" {}\n")
	run("add", ".")
	run("commit", "-m", "initial commit")

	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewCollector_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	_, err := NewCollector(Options{RepoPath: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for non-repo directory")
	}
}

func TestCollect_UntrackedFiles(t *testing.T) {
	dir := initTestRepo(t)
	writeFile(t, dir, "new.py", "print('hi')\n")

	c, err := NewCollector(Options{RepoPath: dir, Mode: ModeChanged})
	if err != nil {
		t.Fatal(err)
	}

	files, err := c.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := files["new.py"]; !ok {
		t.Errorf("expected untracked new.py in collected files, got %v", files)
	}
}

func TestCollect_ByPaths(t *testing.T) {
	dir := initTestRepo(t)

	c, err := NewCollector(Options{
		RepoPath: dir,
		Mode:     ModePaths,
		Paths:    []string{"main.tf", "missing.txt"},
	})
	if err != nil {
		t.Fatal(err)
	}

	files, err := c.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected only main.tf, got %v", files)
	}
	if files["main.tf"] == "" {
		t.Errorf("main.tf content should be collected")
	}
}

func TestContext_IncludesRepoFiles(t *testing.T) {
	dir := initTestRepo(t)

	c, err := NewCollector(Options{RepoPath: dir})
	if err != nil {
		t.Fatal(err)
	}

	rc, err := c.Context(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rc.CommitMessage == "" {
		t.Errorf("expected commit message")
	}
	if _, ok := rc.RepoContextFiles["README.md"]; !ok {
		t.Errorf("expected README.md in repo context files")
	}
}
