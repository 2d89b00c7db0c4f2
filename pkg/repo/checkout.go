package repo

import (
	"errors"
	"fmt"

	"github.com/odvcencio/bgit/pkg/object"
)

// Checkout attaches HEAD to the named branch. Only HEAD changes; the
// working tree and staging area are left as they are.
func (r *Repo) Checkout(name string) error {
	exists, err := r.BranchExists(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if !exists {
		return fmt.Errorf("checkout %q: %w", name, ErrBranchNotFound)
	}
	if err := r.WriteHead(SymbolicHead(name)); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

// CheckoutDetached points HEAD directly at the commit h.
func (r *Repo) CheckoutDetached(h object.Hash) error {
	if _, err := r.Store.ReadCommit(h); err != nil {
		var mismatch *object.TypeMismatchError
		if errors.As(err, &mismatch) {
			return fmt.Errorf("checkout %s: %w", h, ErrNotACommit)
		}
		return fmt.Errorf("checkout %s: %w", h, err)
	}
	if err := r.WriteHead(DetachedHead(h)); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}
