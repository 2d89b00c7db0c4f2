package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/bgit/pkg/object"
)

// HeadKind discriminates the variants of HeadTarget.
type HeadKind int

const (
	HeadUnset HeadKind = iota
	HeadSymbolic
	HeadDetached
)

// HeadTarget is what .bgit/HEAD points at: a branch name, a raw commit
// hash, or nothing.
type HeadTarget struct {
	Kind   HeadKind
	Branch string      // set when Kind == HeadSymbolic
	Hash   object.Hash // set when Kind == HeadDetached
}

// SymbolicHead returns a HEAD attached to the named branch.
func SymbolicHead(branch string) HeadTarget {
	return HeadTarget{Kind: HeadSymbolic, Branch: branch}
}

// DetachedHead returns a HEAD pointing directly at a commit.
func DetachedHead(h object.Hash) HeadTarget {
	return HeadTarget{Kind: HeadDetached, Hash: h}
}

func (t HeadTarget) String() string {
	switch t.Kind {
	case HeadSymbolic:
		return "ref: " + branchRef(t.Branch)
	case HeadDetached:
		return string(t.Hash)
	default:
		return "(unset)"
	}
}

const symbolicPrefix = "ref: "

func formatHead(t HeadTarget) string {
	return t.String() + "\n"
}

func (r *Repo) headPath() string {
	return filepath.Join(r.BgitDir, "HEAD")
}

// ReadHead parses .bgit/HEAD. A missing or blank file reads as HeadUnset.
func (r *Repo) ReadHead() (HeadTarget, error) {
	data, err := os.ReadFile(r.headPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return HeadTarget{}, nil
		}
		return HeadTarget{}, fmt.Errorf("read HEAD: %w", err)
	}
	return parseHead(strings.TrimSpace(string(data)))
}

func parseHead(content string) (HeadTarget, error) {
	if content == "" {
		return HeadTarget{}, nil
	}
	if ref, ok := strings.CutPrefix(content, symbolicPrefix); ok {
		name, ok := strings.CutPrefix(strings.TrimSpace(ref), headsPrefix)
		if !ok || ValidateBranchName(name) != nil {
			return HeadTarget{}, fmt.Errorf("%w: unsupported symbolic ref %q", ErrCorruptHead, ref)
		}
		return SymbolicHead(name), nil
	}
	h := object.Hash(content)
	if !h.Valid() {
		return HeadTarget{}, fmt.Errorf("%w: %q", ErrCorruptHead, content)
	}
	return DetachedHead(h), nil
}

// WriteHead atomically rewrites .bgit/HEAD.
func (r *Repo) WriteHead(t HeadTarget) error {
	switch t.Kind {
	case HeadSymbolic:
		if err := ValidateBranchName(t.Branch); err != nil {
			return fmt.Errorf("write HEAD: %w", err)
		}
	case HeadDetached:
		if !t.Hash.Valid() {
			return fmt.Errorf("write HEAD: %w: %q", object.ErrInvalidHash, t.Hash)
		}
	default:
		return fmt.Errorf("write HEAD: %w", ErrHeadUnset)
	}
	if err := writeFileAtomic(r.headPath(), []byte(formatHead(t))); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	r.logger.Debug("HEAD updated", "target", t.String())
	return nil
}

// CurrentBranch returns the branch HEAD is attached to, or "" when HEAD is
// detached or unset.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.ReadHead()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if head.Kind == HeadSymbolic {
		return head.Branch, nil
	}
	return "", nil
}

// ResolveHead returns the commit HEAD currently designates. An attached
// HEAD on an unborn branch resolves to "".
func (r *Repo) ResolveHead() (object.Hash, error) {
	head, err := r.ReadHead()
	if err != nil {
		return "", err
	}
	switch head.Kind {
	case HeadSymbolic:
		return r.ReadBranch(head.Branch)
	case HeadDetached:
		return head.Hash, nil
	default:
		return "", ErrHeadUnset
	}
}
