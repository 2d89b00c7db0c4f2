package repo

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/odvcencio/bgit/pkg/object"
)

// CommitResult describes what Commit recorded.
type CommitResult struct {
	Hash     object.Hash
	Parent   object.Hash // "" for a root commit
	Branch   string      // branch advanced; "" when HEAD was detached
	Detached bool        // commit stored but no ref points at it
	Files    []string    // committed paths, sorted
	Skipped  []string    // staged paths that had vanished from disk
}

// Commit snapshots the staged files into a new commit.
//
//  1. Read staging; nothing staged writes nothing
//  2. Store each staged file still on disk as a blob
//  3. Resolve the parent from HEAD
//  4. Write the commit object
//  5. Advance the current branch, then clear staging
//
// A detached HEAD stores the commit and leaves every ref alone.
func (r *Repo) Commit(message string) (*CommitResult, error) {
	// 1. Read staging.
	staged, err := r.StagedPaths()
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	if len(staged) == 0 {
		return nil, fmt.Errorf("commit: %w", ErrNothingStaged)
	}

	// 2. Hash staged files.
	files := make(map[string]object.Hash, len(staged))
	var skipped []string
	for _, rel := range staged {
		data, err := os.ReadFile(r.absPath(rel))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				r.logger.Warn("staged file no longer exists, skipping", "path", rel)
				skipped = append(skipped, rel)
				continue
			}
			return nil, fmt.Errorf("commit: read %q: %w", rel, err)
		}
		h, err := r.Store.WriteBlob(&object.Blob{Data: data})
		if err != nil {
			return nil, fmt.Errorf("commit: write blob %q: %w", rel, err)
		}
		files[rel] = h
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("commit: %w", ErrNoValidFiles)
	}

	// 3. Resolve parent.
	head, err := r.ReadHead()
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	var parent object.Hash
	switch head.Kind {
	case HeadSymbolic:
		parent, err = r.ReadBranch(head.Branch)
		if err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
	case HeadDetached:
		parent = head.Hash
	default:
		return nil, fmt.Errorf("commit: %w", ErrHeadUnset)
	}

	// 4. Write commit.
	commitObj := &object.CommitObj{
		Message:   message,
		Timestamp: r.now().Unix(),
		Files:     files,
		Parent:    parent,
	}
	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return nil, fmt.Errorf("commit: write commit: %w", err)
	}

	res := &CommitResult{
		Hash:    commitHash,
		Parent:  parent,
		Files:   sortedKeys(files),
		Skipped: skipped,
	}

	// 5. Advance the branch.
	if head.Kind == HeadSymbolic {
		if err := r.UpdateRefCAS(branchRef(head.Branch), commitHash, parent); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		res.Branch = head.Branch
	} else {
		r.logger.Warn("HEAD is detached, commit is not referenced by any branch", "commit", string(commitHash))
		res.Detached = true
	}

	if err := r.ClearStaging(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("commit created", "commit", string(commitHash), "files", len(files))
	return res, nil
}

func sortedKeys(m map[string]object.Hash) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
