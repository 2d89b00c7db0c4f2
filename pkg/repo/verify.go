package repo

import (
	"fmt"

	"github.com/odvcencio/bgit/pkg/object"
)

// Verify checks every object reachable from a branch tip or a detached
// HEAD.
func (r *Repo) Verify() (*object.VerifySummary, error) {
	tips, err := r.BranchTips()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	roots := make([]object.Hash, 0, len(tips)+1)
	for _, tip := range tips {
		roots = append(roots, tip)
	}
	head, err := r.ReadHead()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if head.Kind == HeadDetached {
		roots = append(roots, head.Hash)
	}
	return r.Store.Verify(roots)
}
