// Package git provides the version-control collaborator for pullreq.
// It wraps system git commands to read configured remotes, verify references,
// resolve the current branch and read commit subjects. It never writes to the
// repository.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// headsPrefix is stripped from symbolic refs to get a branch name.
const headsPrefix = "refs/heads/"

// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch.
var ErrDetachedHead = errors.New("HEAD is detached, not on a branch")

// Client runs read-only git commands against a repository.
type Client struct {
	// Dir is the working directory of the git repository.
	Dir string

	// Binary is the git executable (default: "git").
	Binary string
}

// NewClient creates a new git client for the given directory.
func NewClient(dir string) *Client {
	if dir == "" {
		dir = "."
	}
	return &Client{
		Dir:    dir,
		Binary: "git",
	}
}

// CommandError describes a failed git invocation.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s failed: %v: %s", strings.Join(e.Args, " "), e.Err, e.Stderr)
	}
	return fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// execCommand executes a git command and returns its trimmed stdout.
func (c *Client) execCommand(ctx context.Context, args ...string) (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}

	cmdArgs := []string{"-C", c.Dir}
	cmdArgs = append(cmdArgs, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, cmdArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return "", cmdErr
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo checks if the directory is a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	_, err := c.execCommand(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// ConfigGet gets a git configuration value. ok is false when the key is unset.
func (c *Client) ConfigGet(ctx context.Context, key string) (value string, ok bool, err error) {
	out, err := c.execCommand(ctx, "config", "--get", key)
	if err != nil {
		// git config --get exits 1 when the key is not set
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return out, true, nil
}

// RemoteURL returns the configured URL of a remote. ok is false when the
// remote is not configured.
func (c *Client) RemoteURL(ctx context.Context, alias string) (string, bool, error) {
	if alias == "" {
		return "", false, nil
	}
	url, ok, err := c.ConfigGet(ctx, "remote."+alias+".url")
	if err != nil {
		return "", false, fmt.Errorf("failed to read remote %s: %w", alias, err)
	}
	return url, ok && url != "", nil
}

// VerifyRef reports whether name resolves to a commit, either a local branch,
// a remote-tracking branch, a tag or a revision.
func (c *Client) VerifyRef(ctx context.Context, name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	_, err := c.execCommand(ctx, "rev-parse", "--verify", "--quiet", name+"^{commit}")
	return err == nil
}

// CurrentBranch returns the checked-out branch name without the refs/heads/ prefix.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	ref, err := c.execCommand(ctx, "symbolic-ref", "--quiet", "HEAD")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
			return "", ErrDetachedHead
		}
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimPrefix(ref, headsPrefix), nil
}

// LastCommitSubject returns the subject line of the latest commit on ref.
func (c *Client) LastCommitSubject(ctx context.Context, ref string) (string, error) {
	out, err := c.execCommand(ctx, "log", "-1", "--format=%s", ref, "--")
	if err != nil {
		return "", fmt.Errorf("failed to read latest commit of %s: %w", ref, err)
	}
	return out, nil
}

// Remotes returns the configured remote names, sorted.
func (c *Client) Remotes(ctx context.Context) ([]string, error) {
	out, err := c.execCommand(ctx, "remote")
	if err != nil {
		return nil, fmt.Errorf("failed to list git remotes: %w", err)
	}
	remotes := strings.Fields(out)
	sort.Strings(remotes)
	return remotes, nil
}

// RemoteBranches returns remote-tracking branches as "<remote>/<branch>",
// skipping the symbolic <remote>/HEAD entries.
func (c *Client) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := c.execCommand(ctx, "for-each-ref", "--format=%(refname:short)", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}
	return parseRemoteBranches(out), nil
}

// parseRemoteBranches parses for-each-ref output into branch names.
func parseRemoteBranches(output string) []string {
	var branches []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		// newer git prints "origin" for refs/remotes/origin/HEAD
		if line == "" || !strings.Contains(line, "/") || strings.HasSuffix(line, "/HEAD") {
			continue
		}
		branches = append(branches, line)
	}
	return branches
}
