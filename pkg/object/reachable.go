package object

import (
	"fmt"
	"sort"
)

// VerifySummary reports what Verify checked.
type VerifySummary struct {
	Commits int
	Blobs   int
}

// ReachableSet returns all object hashes reachable from roots by following
// commit parents and file entries. Empty roots are skipped; a missing object
// anywhere in the graph is an error wrapping ErrObjectNotFound.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]ObjectType, error) {
	out := make(map[Hash]ObjectType, len(roots))
	stack := uniqueHashes(roots)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := out[h]; ok {
			continue
		}

		objType, data, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		out[h] = objType

		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}
	return out, nil
}

// Verify walks everything reachable from roots and checks that each object
// decodes and re-hashes to the address it is stored under.
func (s *Store) Verify(roots []Hash) (*VerifySummary, error) {
	set, err := s.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &VerifySummary{}
	for _, h := range sortedHashes(set) {
		objType, content, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", h, err)
		}
		if actual := HashObject(objType, content); actual != h {
			return nil, fmt.Errorf("verify %s: %w: hash mismatch (computed %s)", h, ErrCorruptObject, actual)
		}
		switch objType {
		case TypeCommit:
			report.Commits++
		case TypeBlob:
			report.Blobs++
		}
	}
	return report, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	switch objType {
	case TypeBlob:
		return nil, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, 1+len(commit.Files))
		if commit.Parent != "" {
			refs = append(refs, commit.Parent)
		}
		for _, h := range commit.Files {
			refs = append(refs, h)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unsupported object type %q", objType)
	}
}

func uniqueHashes(in []Hash) []Hash {
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedHashes(set map[Hash]ObjectType) []Hash {
	out := make([]Hash, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
