package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/bgit/pkg/object"
	"github.com/spf13/cobra"
)

func newCatFileCmd(a *app) *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <hash>",
		Short: "Print the content of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}

			r, err := a.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, objType)
				return nil
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object kind instead of its content")

	return cmd
}

func newHashObjectCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute the blob address of a file, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			h := object.HashObject(object.TypeBlob, data)
			if write {
				r, err := a.openRepo()
				if err != nil {
					return err
				}
				defer r.Close()
				if h, err = r.Store.WriteBlob(&object.Blob{Data: data}); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the blob into the object store")

	return cmd
}
