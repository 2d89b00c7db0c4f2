package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/bgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		defaultBranch    string
		backend          string
		compressionLevel int
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty bgit repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			cfg := repo.DefaultConfig()
			cfg.Core.DefaultBranch = defaultBranch
			cfg.Core.CompressionLevel = compressionLevel
			cfg.Storage.Backend = backend

			r, err := repo.InitWithConfig(abs, cfg, repo.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty bgit repository in %s\n", r.BgitDir+string(filepath.Separator))
			return nil
		},
	}

	def := repo.DefaultConfig()
	cmd.Flags().StringVar(&defaultBranch, "default-branch", def.Core.DefaultBranch, "name of the initial branch")
	cmd.Flags().StringVar(&backend, "backend", def.Storage.Backend, "object storage backend: fs or sqlite")
	cmd.Flags().IntVar(&compressionLevel, "compression-level", def.Core.CompressionLevel, "zlib compression level (-1 for default)")

	return cmd
}
