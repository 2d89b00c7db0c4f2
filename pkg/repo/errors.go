package repo

import (
	"errors"
	"fmt"
)

var (
	ErrRepoExists     = errors.New("repository already exists")
	ErrNotARepository = errors.New("not a bgit repository (or any parent up to /)")

	ErrPathNotFound    = errors.New("path does not exist")
	ErrNotRegularFile  = errors.New("not a regular file")
	ErrPathOutsideRepo = errors.New("path is outside the repository")
	ErrPathIgnored     = errors.New("path is ignored")
	ErrInvalidPath     = errors.New("invalid path")
	ErrPathNotStaged   = errors.New("path is not staged")

	ErrNothingStaged = errors.New("nothing staged")
	ErrNoValidFiles  = errors.New("no valid files to commit")
	ErrNotACommit    = errors.New("not a commit")

	ErrHeadUnset                 = errors.New("HEAD is not set")
	ErrCorruptHead               = errors.New("corrupt HEAD")
	ErrCorruptRef                = errors.New("corrupt ref")
	ErrRefCASMismatch            = errors.New("ref compare-and-swap mismatch")
	ErrInvalidBranchName         = errors.New("invalid branch name")
	ErrBranchNotFound            = errors.New("branch not found")
	ErrBranchAlreadyExists       = errors.New("branch already exists")
	ErrCannotDeleteCurrentBranch = errors.New("cannot delete the currently checked-out branch")
)

// PathError records a per-path staging failure. Stage joins these so the
// caller can report each one and keep going.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
