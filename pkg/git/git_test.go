package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

// runGit runs a git command in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v, output: %s", args, err, string(out))
	}
	return string(out)
}

// setupTestRepo creates a temporary git repository with one commit on
// branch feature-x, a remote "alice" and a remote-tracking ref alice/master.
// Note: Uses t.TempDir() for automatic cleanup, so no explicit cleanup is needed.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	tmpDir := t.TempDir()

	runGit(t, tmpDir, "init", "--quiet")
	runGit(t, tmpDir, "config", "user.name", "Test User")
	runGit(t, tmpDir, "config", "user.email", "test@example.com")
	runGit(t, tmpDir, "config", "commit.gpgsign", "false")

	testFile := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(testFile, []byte("test readme"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	runGit(t, tmpDir, "add", "README.md")
	runGit(t, tmpDir, "commit", "--quiet", "-m", `Fix "quoted" parser`)
	runGit(t, tmpDir, "checkout", "--quiet", "-b", "feature-x")

	runGit(t, tmpDir, "remote", "add", "alice", "git@github.com:alice/proj.git")
	runGit(t, tmpDir, "remote", "add", "bob", "https://github.com/bob/proj.git")
	runGit(t, tmpDir, "update-ref", "refs/remotes/alice/master", "HEAD")
	runGit(t, tmpDir, "update-ref", "refs/remotes/bob/feature-x", "HEAD")

	return tmpDir
}

func TestRemoteURL(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)
	ctx := context.Background()

	url, ok, err := client.RemoteURL(ctx, "alice")
	if err != nil {
		t.Fatalf("RemoteURL() error = %v", err)
	}
	if !ok || url != "git@github.com:alice/proj.git" {
		t.Errorf("RemoteURL() = (%q, %v), want (%q, true)", url, ok, "git@github.com:alice/proj.git")
	}

	url, ok, err = client.RemoteURL(ctx, "nope")
	if err != nil {
		t.Fatalf("RemoteURL() for missing remote error = %v", err)
	}
	if ok || url != "" {
		t.Errorf("RemoteURL() for missing remote = (%q, %v), want (\"\", false)", url, ok)
	}
}

func TestVerifyRef(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)
	ctx := context.Background()

	tests := []struct {
		ref  string
		want bool
	}{
		{"feature-x", true},
		{"alice/master", true},
		{"refs/remotes/alice/master", true},
		{"HEAD", true},
		{"alice/missing", false},
		{"missing", false},
		{"", false},
		{"--all", false},
	}

	for _, tt := range tests {
		if got := client.VerifyRef(ctx, tt.ref); got != tt.want {
			t.Errorf("VerifyRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestCurrentBranch(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)
	ctx := context.Background()

	branch, err := client.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != "feature-x" {
		t.Errorf("CurrentBranch() = %q, want %q", branch, "feature-x")
	}

	runGit(t, dir, "checkout", "--quiet", "--detach")
	if _, err := client.CurrentBranch(ctx); !errors.Is(err, ErrDetachedHead) {
		t.Errorf("CurrentBranch() on detached HEAD error = %v, want ErrDetachedHead", err)
	}
}

func TestLastCommitSubject(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)
	ctx := context.Background()

	subject, err := client.LastCommitSubject(ctx, "bob/feature-x")
	if err != nil {
		t.Fatalf("LastCommitSubject() error = %v", err)
	}
	if subject != `Fix "quoted" parser` {
		t.Errorf("LastCommitSubject() = %q, want %q", subject, `Fix "quoted" parser`)
	}

	if _, err := client.LastCommitSubject(ctx, "bob/missing"); err == nil {
		t.Error("LastCommitSubject() expected error for missing ref")
	}
}

func TestRemotesAndRemoteBranches(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)
	ctx := context.Background()

	remotes, err := client.Remotes(ctx)
	if err != nil {
		t.Fatalf("Remotes() error = %v", err)
	}
	if want := []string{"alice", "bob"}; !reflect.DeepEqual(remotes, want) {
		t.Errorf("Remotes() = %v, want %v", remotes, want)
	}

	branches, err := client.RemoteBranches(ctx)
	if err != nil {
		t.Fatalf("RemoteBranches() error = %v", err)
	}
	if want := []string{"alice/master", "bob/feature-x"}; !reflect.DeepEqual(branches, want) {
		t.Errorf("RemoteBranches() = %v, want %v", branches, want)
	}
}

func TestParseRemoteBranches(t *testing.T) {
	output := "origin\norigin/HEAD\norigin/main\n\nupstream/release/1.0\n"
	want := []string{"origin/main", "upstream/release/1.0"}
	if got := parseRemoteBranches(output); !reflect.DeepEqual(got, want) {
		t.Errorf("parseRemoteBranches() = %v, want %v", got, want)
	}
}

func TestConfigGet(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)
	ctx := context.Background()

	runGit(t, dir, "config", "github.user", "bob")

	value, ok, err := client.ConfigGet(ctx, "github.user")
	if err != nil || !ok || value != "bob" {
		t.Errorf("ConfigGet() = (%q, %v, %v), want (\"bob\", true, nil)", value, ok, err)
	}

	_, ok, err = client.ConfigGet(ctx, "pullreq.unset-key")
	if err != nil || ok {
		t.Errorf("ConfigGet() for unset key = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}
