// Package gitops wraps the git CLI for index publication and source
// checkout management.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/forgeyard/shelf/pkg/types"
)

const binGit = "git"

// Repo is a handle on a local git working tree.
type Repo struct {
	dir string
}

// Open verifies that dir is inside a git working tree and returns a handle
// on it.
func Open(dir string) (*Repo, error) {
	r := &Repo{dir: dir}
	if _, err := r.output("rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", dir, err)
	}
	return r, nil
}

// Clone checks out url into dir.
func Clone(ctx context.Context, url, dir string) error {
	cmd := exec.CommandContext(ctx, binGit, "clone", url, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone %s: %w: %s", url, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Dir returns the working tree directory.
func (r *Repo) Dir() string { return r.dir }

// run executes a git command in the repository directory.
func (r *Repo) run(args ...string) error {
	cmd := exec.Command(binGit, args...)
	cmd.Dir = r.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// output executes a git command and returns its trimmed stdout.
func (r *Repo) output(args ...string) (string, error) {
	cmd := exec.Command(binGit, args...)
	cmd.Dir = r.dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsClean reports whether the given paths (or the whole tree when none are
// given) have no staged, unstaged, or untracked changes.
func (r *Repo) IsClean(paths ...string) (bool, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	out, err := r.output(args...)
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// Stage adds the given paths to the git index.
func (r *Repo) Stage(paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return r.run(args...)
}

// Commit records the staged changes.
func (r *Repo) Commit(msg string) error {
	return r.run("commit", "-m", msg)
}

// Fetch updates the remote tracking branch.
func (r *Repo) Fetch(remote, branch string) error {
	return r.run("fetch", remote, branch)
}

// Push publishes the local branch to the remote.
func (r *Repo) Push(remote, branch string) error {
	return r.run("push", remote, branch)
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch() (string, error) {
	return r.output("rev-parse", "--abbrev-ref", "HEAD")
}

// PublishResult reports what Publish did.
type PublishResult struct {
	// Committed is false when the worktree was already clean and the
	// whole operation was a no-op.
	Committed bool
}

// Publish commits and pushes index changes. When the given paths are
// unchanged it does nothing, so running it twice in a row never produces a
// second commit. Fetch and push are skipped when no remote is configured.
func Publish(r *Repo, remote types.Remote, msg string, paths ...string) (PublishResult, error) {
	var res PublishResult

	clean, err := r.IsClean(paths...)
	if err != nil {
		return res, err
	}
	if clean {
		return res, nil
	}

	if err := r.Stage(paths...); err != nil {
		return res, err
	}
	if err := r.Commit(msg); err != nil {
		return res, err
	}
	res.Committed = true

	if remote.Name == "" {
		return res, nil
	}
	if err := r.Fetch(remote.Name, remote.Branch); err != nil {
		return res, err
	}
	if err := r.Push(remote.Name, remote.Branch); err != nil {
		return res, err
	}
	return res, nil
}

// ChannelForBranch maps a branch name to a release channel: main and
// master publish to the main channel, everything else is a dev build.
func ChannelForBranch(branch string) string {
	switch branch {
	case "main", "master":
		return types.ChannelMain
	default:
		return types.ChannelDev
	}
}
