package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/odvcencio/bgit/pkg/object"
	"github.com/odvcencio/bgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd(a *app) *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [commit]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			headHash, err := r.ResolveHead()
			if err != nil && (len(args) == 0 || !errors.Is(err, repo.ErrHeadUnset)) {
				return fmt.Errorf("cannot resolve HEAD: %w", err)
			}
			start := headHash
			if len(args) == 1 {
				start, err = object.ParseHash(args[0])
				if err != nil {
					return err
				}
			}

			if start == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
				return nil
			}

			tips, err := r.BranchTips()
			if err != nil {
				return err
			}
			current, _ := r.CurrentBranch()

			out := cmd.OutOrStdout()
			shown := 0
			for entry, err := range r.Walk(start) {
				if err != nil {
					return err
				}
				h := entry.Hash
				c := entry.Commit
				decoration := buildDecoration(h, headHash, current, tips)

				if oneline {
					if decoration != "" {
						fmt.Fprintf(out, "%s %s %s\n", h.Short(), decoration, firstLine(c.Message))
					} else {
						fmt.Fprintf(out, "%s %s\n", h.Short(), firstLine(c.Message))
					}
				} else {
					if decoration != "" {
						fmt.Fprintf(out, "commit %s %s\n", h, decoration)
					} else {
						fmt.Fprintf(out, "commit %s\n", h)
					}
					fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).Format("2006-01-02 15:04:05"))
					fmt.Fprintf(out, "Files:  %d\n", len(c.Files))
					fmt.Fprintln(out)
					fmt.Fprintf(out, "    %s\n", c.Message)
					fmt.Fprintln(out)
				}

				shown++
				if limit > 0 && shown >= limit {
					break
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show (0 for all)")

	return cmd
}

// buildDecoration returns a string like "(HEAD -> main, feature)" naming
// HEAD and the branches whose tip is commitHash, or "" when there are none.
func buildDecoration(commitHash, headHash object.Hash, current string, tips map[string]object.Hash) string {
	var labels []string
	if commitHash == headHash {
		if current != "" {
			labels = append(labels, "HEAD -> "+current)
		} else {
			labels = append(labels, "HEAD")
		}
	}
	for _, name := range sortedBranchNames(tips) {
		if tips[name] == commitHash && name != current {
			labels = append(labels, name)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return "(" + strings.Join(labels, ", ") + ")"
}

func sortedBranchNames(tips map[string]object.Hash) []string {
	names := make([]string, 0, len(tips))
	for name := range tips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
