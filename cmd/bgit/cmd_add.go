package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <files...>",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			staged, err := r.Stage(args)
			if err == nil {
				return nil
			}
			reportJoined(cmd, err)
			if len(staged) == 0 {
				return errors.New("no paths staged")
			}
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm --cached <files...>",
		Short: "Remove files from the staging area",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cached {
				return errors.New("only --cached is supported; working tree files are never removed")
			}
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.Unstage(args); err != nil {
				reportJoined(cmd, err)
				return errors.New("some paths were not staged")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "only remove from the staging area")

	return cmd
}

// reportJoined prints each error of an errors.Join result on its own line.
func reportJoined(cmd *cobra.Command, err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
	}
}
