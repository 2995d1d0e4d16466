package compdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Delta detects files changed relative to a git baseline so a run can check
// only what a change touched.
type Delta struct {
	ProjectDir   string
	TargetBranch string
}

// ChangedFiles returns the repo-relative paths changed in the working tree or
// against the target branch. A nil map means no baseline is available and the
// caller should check everything; that is never an error.
func (d *Delta) ChangedFiles(ctx context.Context) (map[string]bool, error) {
	repo, err := git.PlainOpen(d.ProjectDir)
	if err != nil {
		log.Debug("not a git repository, checking all files", "dir", d.ProjectDir)
		return nil, nil
	}

	worktree, err := d.worktreeChanges(repo)
	if err != nil {
		log.Debug("worktree diff failed, checking all files", "err", err)
		return nil, nil
	}

	branch, err := d.branchChanges(ctx, repo)
	if err != nil {
		log.Debug("branch diff failed, checking all files", "err", err)
		return nil, nil
	}

	changed := make(map[string]bool, len(worktree)+len(branch))
	for p := range worktree {
		changed[p] = true
	}
	for p := range branch {
		changed[p] = true
	}

	return changed, nil
}

// worktreeChanges returns files with staged or unstaged modifications.
func (d *Delta) worktreeChanges(repo *git.Repository) (map[string]bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	changed := make(map[string]bool)
	for path, s := range status {
		if s.Worktree == git.Unmodified && s.Staging == git.Unmodified {
			continue
		}
		changed[path] = true
	}
	return changed, nil
}

// branchChanges returns files changed between HEAD and the target branch.
func (d *Delta) branchChanges(ctx context.Context, repo *git.Repository) (map[string]bool, error) {
	target := d.targetBranch(repo)
	if target == "" {
		return nil, nil
	}

	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}

	targetRef, err := repo.Reference(plumbing.NewBranchReferenceName(target), true)
	if err != nil {
		targetRef, err = repo.Reference(plumbing.NewRemoteReferenceName("origin", target), true)
		if err != nil {
			return nil, nil // target branch not found, skip
		}
	}
	targetCommit, err := repo.CommitObject(targetRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading target commit: %w", err)
	}

	// On the target branch itself, diff HEAD against its parent so the
	// latest commit still gets checked.
	if headCommit.Hash == targetCommit.Hash {
		if headCommit.NumParents() == 0 {
			return nil, nil
		}
		parent, err := headCommit.Parent(0)
		if err != nil {
			return nil, nil
		}
		targetCommit = parent
	}

	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, err
	}
	targetTree, err := targetCommit.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, targetTree, headTree, &object.DiffTreeOptions{})
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	changed := make(map[string]bool)
	for _, change := range changes {
		if name := changeName(change); name != "" {
			changed[name] = true
		}
	}
	return changed, nil
}

// targetBranch picks the baseline branch: explicit env var, config value,
// common CI variables, the remote default branch, then "main".
func (d *Delta) targetBranch(repo *git.Repository) string {
	if branch := os.Getenv("CLANK_TARGET_BRANCH"); branch != "" {
		return branch
	}
	if d.TargetBranch != "" {
		return d.TargetBranch
	}

	ciVars := []string{
		"CI_MERGE_REQUEST_TARGET_BRANCH_NAME", // GitLab CI
		"GITHUB_BASE_REF",                     // GitHub Actions
		"CHANGE_TARGET",                       // Jenkins
	}
	for _, v := range ciVars {
		if branch := os.Getenv(v); branch != "" {
			return branch
		}
	}

	// Symbolic ref for origin/HEAD names the remote default branch.
	if ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", "HEAD"), false); err == nil {
		target := ref.Target().String()
		if name, ok := strings.CutPrefix(target, "refs/remotes/origin/"); ok {
			return name
		}
	}

	return "main"
}

func changeName(change *object.Change) string {
	action, err := change.Action()
	if err != nil {
		return ""
	}
	switch action {
	case merkletrie.Insert, merkletrie.Modify:
		return change.To.Name
	case merkletrie.Delete:
		return change.From.Name
	}
	return ""
}

// FilterChanged keeps only paths whose repo-relative form appears in the
// changed set. Paths are relative to the build directory; the changed set is
// relative to the project directory. A nil set keeps everything.
func FilterChanged(paths []string, buildDir, projectDir string, changed map[string]bool) []string {
	if changed == nil {
		return paths
	}

	kept := paths[:0:0]
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(buildDir, p)
		}
		rel, err := filepath.Rel(projectDir, abs)
		if err != nil {
			continue
		}
		if changed[filepath.ToSlash(rel)] {
			kept = append(kept, p)
		}
	}
	return kept
}
