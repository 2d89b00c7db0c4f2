package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/odvcencio/bgit/pkg/object"
)

const headsPrefix = "refs/heads/"

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

func branchRef(name string) string {
	return headsPrefix + name
}

func branchPath(bgitDir, name string) string {
	return filepath.Join(bgitDir, "refs", "heads", name)
}

// ValidateBranchName rejects names that cannot live as a single file under
// refs/heads/.
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBranchName)
	case strings.ContainsAny(name, "/\\ \t\r\n"):
		return fmt.Errorf("%w: %q contains a separator or whitespace", ErrInvalidBranchName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains ..", ErrInvalidBranchName, name)
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with %q", ErrInvalidBranchName, name, name[:1])
	case strings.HasSuffix(name, ".lock"):
		return fmt.Errorf("%w: %q ends with .lock", ErrInvalidBranchName, name)
	}
	return nil
}

// ReadBranch returns the tip of the named branch. An unborn branch (empty
// ref file) returns "" and no error; a missing one returns ErrBranchNotFound.
func (r *Repo) ReadBranch(name string) (object.Hash, error) {
	if err := ValidateBranchName(name); err != nil {
		return "", fmt.Errorf("read branch: %w", err)
	}
	h, exists, err := readRefHash(branchPath(r.BgitDir, name))
	if err != nil {
		return "", fmt.Errorf("read branch %q: %w", name, err)
	}
	if !exists {
		return "", fmt.Errorf("read branch %q: %w", name, ErrBranchNotFound)
	}
	return h, nil
}

// BranchExists reports whether refs/heads/<name> is present.
func (r *Repo) BranchExists(name string) (bool, error) {
	if err := ValidateBranchName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(branchPath(r.BgitDir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat branch %q: %w", name, err)
}

// WriteBranch points the named branch at h unconditionally, creating it if
// needed. An empty h leaves the branch unborn.
func (r *Repo) WriteBranch(name string, h object.Hash) error {
	if err := ValidateBranchName(name); err != nil {
		return fmt.Errorf("write branch: %w", err)
	}
	return r.updateRef(branchRef(name), h, nil)
}

// UpdateRefCAS writes a hash to the named ref file under .bgit/ using
// lockfile + rename atomic semantics. If expectedOld is provided, the
// update only succeeds when the current ref hash matches it.
func (r *Repo) UpdateRefCAS(name string, h object.Hash, expectedOld ...object.Hash) error {
	if len(expectedOld) > 1 {
		return fmt.Errorf("update ref %q: expected at most one old hash", name)
	}
	var check func(exists bool, old object.Hash) error
	if len(expectedOld) == 1 {
		want := expectedOld[0]
		check = func(_ bool, old object.Hash) error {
			if old != want {
				return fmt.Errorf("%w (expected %q, found %q)", ErrRefCASMismatch, want, old)
			}
			return nil
		}
	}
	return r.updateRef(name, h, check)
}

// updateRef takes the ref lock, lets check inspect the current state, and
// then replaces the ref with h.
func (r *Repo) updateRef(name string, h object.Hash, check func(exists bool, old object.Hash) error) error {
	if h != "" && !h.Valid() {
		return fmt.Errorf("update ref %q: %w: %q", name, object.ErrInvalidHash, h)
	}

	refPath := filepath.Join(r.BgitDir, filepath.FromSlash(name))

	dir := filepath.Dir(refPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	oldHash, exists, err := readRefHash(refPath)
	if err != nil {
		return fmt.Errorf("update ref %q: read old hash: %w", name, err)
	}
	if check != nil {
		if err := check(exists, oldHash); err != nil {
			return fmt.Errorf("update ref %q: %w", name, err)
		}
	}

	content := ""
	if h != "" {
		content = string(h) + "\n"
	}
	if _, err := lockFile.WriteString(content); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanupLock = false

	r.logger.Debug("ref updated", "ref", name, "old", string(oldHash), "new", string(h))
	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

// readRefHash reads a ref file. A missing file reports exists=false; an
// empty one is an unborn ref.
func readRefHash(refPath string) (object.Hash, bool, error) {
	data, err := os.ReadFile(refPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	h := object.Hash(strings.TrimSpace(string(data)))
	if h != "" && !h.Valid() {
		return "", true, fmt.Errorf("%w: %q", ErrCorruptRef, h)
	}
	return h, true, nil
}
