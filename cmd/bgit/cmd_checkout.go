package main

import (
	"errors"
	"fmt"

	"github.com/odvcencio/bgit/pkg/object"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var (
		createBranch bool
		detach       bool
	)

	cmd := &cobra.Command{
		Use:   "checkout <branch | --detach commit>",
		Short: "Switch HEAD to a branch or commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if createBranch && detach {
				return errors.New("-b and --detach cannot be used together")
			}

			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			if detach {
				h, err := object.ParseHash(target)
				if err != nil {
					return err
				}
				if err := r.CheckoutDetached(h); err != nil {
					return err
				}
				fmt.Fprintf(out, "HEAD is now at %s\n", h.Short())
				return nil
			}

			if createBranch {
				if _, err := r.CreateBranchAtHead(target); err != nil {
					return err
				}
			}

			if err := r.Checkout(target); err != nil {
				return err
			}

			if createBranch {
				fmt.Fprintf(out, "switched to new branch '%s'\n", target)
			} else {
				fmt.Fprintf(out, "switched to branch '%s'\n", target)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "create and switch to a new branch")
	cmd.Flags().BoolVar(&detach, "detach", false, "point HEAD directly at a commit")

	return cmd
}
