package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/odvcencio/bgit/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0-dev"

// app carries the settings shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bgit:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: slog.New(slog.DiscardHandler),
	}
	a.v.SetEnvPrefix("BGIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("log-level", "warn")
	a.v.SetDefault("log-format", "text")

	root := &cobra.Command{
		Use:           "bgit",
		Short:         "A minimal content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd, a.v.GetString("log-level"), a.v.GetString("log-format"))
			if err != nil {
				return err
			}
			a.logger = logger
			if dir := a.v.GetString("chdir"); dir != "" {
				if err := os.Chdir(dir); err != nil {
					return fmt.Errorf("cannot change to %s: %w", dir, err)
				}
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.StringP("chdir", "C", "", "run as if started in `dir`")
	for _, name := range []string{"log-level", "log-format", "chdir"} {
		if err := a.v.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newRmCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newCommitCmd(a))
	root.AddCommand(newLogCmd(a))
	root.AddCommand(newBranchCmd(a))
	root.AddCommand(newCheckoutCmd(a))
	root.AddCommand(newCatFileCmd(a))
	root.AddCommand(newHashObjectCmd(a))
	root.AddCommand(newVerifyCmd(a))

	return root
}

// openRepo opens the repository containing the working directory.
func (a *app) openRepo() (*repo.Repo, error) {
	return repo.Open(".", repo.WithLogger(a.logger))
}

func newLogger(cmd *cobra.Command, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "bgit", version)
		},
	}
}
