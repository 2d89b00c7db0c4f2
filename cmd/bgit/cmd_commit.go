package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCommitCmd(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record staged files as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return errors.New("commit message is required (-m)")
			}

			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			res, err := r.Commit(message)
			if err != nil {
				return err
			}

			for _, p := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s no longer exists, not committed\n", p)
			}

			branch := res.Branch
			if res.Detached {
				branch = "detached HEAD"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, res.Hash.Short(), message)
			fmt.Fprintf(cmd.OutOrStdout(), " %d file(s) committed\n", len(res.Files))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")

	return cmd
}
