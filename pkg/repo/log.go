package repo

import (
	"errors"
	"fmt"
	"iter"

	"github.com/odvcencio/bgit/pkg/object"
)

// LogEntry is one step of a history walk.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Walk lazily follows parent links from start, newest first. The sequence
// stops after the root commit, or after yielding the first error. An empty
// start yields nothing.
func (r *Repo) Walk(start object.Hash) iter.Seq2[LogEntry, error] {
	return func(yield func(LogEntry, error) bool) {
		current := start
		for current != "" {
			c, err := r.Store.ReadCommit(current)
			if err != nil {
				var mismatch *object.TypeMismatchError
				if errors.As(err, &mismatch) {
					err = fmt.Errorf("%w: %s is a %s", ErrNotACommit, current, mismatch.Got)
				}
				yield(LogEntry{Hash: current}, fmt.Errorf("log: %w", err))
				return
			}
			if !yield(LogEntry{Hash: current, Commit: c}, nil) {
				return
			}
			current = c.Parent
		}
	}
}

// Log collects up to limit entries of Walk(start). A limit of zero or
// less means the whole chain.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	for entry, err := range r.Walk(start) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries, nil
}

// LogHead walks from the commit HEAD designates. An unborn branch has no
// history.
func (r *Repo) LogHead(limit int) ([]LogEntry, error) {
	tip, err := r.ResolveHead()
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	return r.Log(tip, limit)
}
