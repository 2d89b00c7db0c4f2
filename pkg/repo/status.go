package repo

import (
	"fmt"

	"github.com/odvcencio/bgit/pkg/object"
)

// Status summarizes the repository state.
type Status struct {
	Head   HeadTarget
	Tip    object.Hash // commit HEAD resolves to, "" when unborn or unset
	Staged []string
}

// Status reports where HEAD points and what is staged.
func (r *Repo) Status() (*Status, error) {
	head, err := r.ReadHead()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	st := &Status{Head: head}
	switch head.Kind {
	case HeadSymbolic:
		tip, err := r.ReadBranch(head.Branch)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		st.Tip = tip
	case HeadDetached:
		st.Tip = head.Hash
	}

	st.Staged, err = r.StagedPaths()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	return st, nil
}
