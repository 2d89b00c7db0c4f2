package repo

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/odvcencio/bgit/pkg/object"
)

// CreateBranch creates refs/heads/<name> pointing at target, or unborn when
// target is empty. Returns ErrBranchAlreadyExists if the branch is present,
// even when it has no commits yet. target is not checked against the store.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	if err := ValidateBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	err := r.updateRef(branchRef(name), target, func(exists bool, _ object.Hash) error {
		if exists {
			return ErrBranchAlreadyExists
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// CreateBranchAtHead creates a branch at the commit HEAD currently
// resolves to. On an unborn branch the new branch is unborn too.
func (r *Repo) CreateBranchAtHead(name string) (object.Hash, error) {
	tip, err := r.ResolveHead()
	if err != nil && !errors.Is(err, ErrHeadUnset) {
		return "", fmt.Errorf("create branch %q: %w", name, err)
	}
	if err := r.CreateBranch(name, tip); err != nil {
		return "", err
	}
	return tip, nil
}

// DeleteBranch removes the branch ref file .bgit/refs/heads/<name>.
// Returns an error if the branch is the current branch or does not exist.
func (r *Repo) DeleteBranch(name string) error {
	if err := ValidateBranchName(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}

	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch %q: %w", name, ErrCannotDeleteCurrentBranch)
	}

	if err := os.Remove(branchPath(r.BgitDir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete branch %q: %w", name, ErrBranchNotFound)
		}
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	r.logger.Debug("branch deleted", "branch", name)
	return nil
}

// ListBranches reads .bgit/refs/heads/ and returns the branch names sorted
// alphabetically. Lock and temp files are skipped.
func (r *Repo) ListBranches() ([]string, error) {
	entries, err := os.ReadDir(branchPath(r.BgitDir, ""))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ValidateBranchName(e.Name()) != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// BranchTips returns every branch with its tip.
func (r *Repo) BranchTips() (map[string]object.Hash, error) {
	names, err := r.ListBranches()
	if err != nil {
		return nil, err
	}
	tips := make(map[string]object.Hash, len(names))
	for _, name := range names {
		h, err := r.ReadBranch(name)
		if err != nil {
			return nil, err
		}
		tips[name] = h
	}
	return tips, nil
}

// BranchesAt lists the branches whose tip is h, sorted.
func (r *Repo) BranchesAt(h object.Hash) ([]string, error) {
	tips, err := r.BranchTips()
	if err != nil {
		return nil, err
	}
	var names []string
	for name, tip := range tips {
		if tip != "" && tip == h {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
