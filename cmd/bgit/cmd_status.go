package main

import (
	"fmt"

	"github.com/odvcencio/bgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show HEAD and the staged files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch st.Head.Kind {
			case repo.HeadSymbolic:
				if st.Tip == "" {
					fmt.Fprintf(out, "on %s (no commits yet)\n", st.Head.Branch)
				} else {
					fmt.Fprintf(out, "on %s\n", st.Head.Branch)
				}
			case repo.HeadDetached:
				fmt.Fprintf(out, "HEAD detached at %s\n", st.Tip.Short())
			default:
				fmt.Fprintln(out, "HEAD is not set")
			}

			if len(st.Staged) == 0 {
				fmt.Fprintln(out, "nothing staged")
				return nil
			}
			fmt.Fprintln(out, "\nstaged for commit:")
			for _, p := range st.Staged {
				fmt.Fprintf(out, "  + %s\n", p)
			}
			return nil
		},
	}
}
