package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
	"github.com/holon-run/pullreq/pkg/log"
)

var (
	configPath string
	logLevel   string
	repoDir    string
	remoteName string
)

var rootCmd = &cobra.Command{
	Use:   "pullreq",
	Short: "Open GitHub pull requests from local git branches",
	Long: `pullreq turns local branch state into GitHub pull request calls.

Branches are named as <remote>/<branch>. The remote's URL decides the
repository owner, so "alice/master" is the master branch of the repository
the "alice" remote points to. A bare branch name refers to the default remote
(--remote, or default_remote in the config file, "origin" if unset).

Account settings (login, token, signature) come from the config file written
by 'pullreq setup' or from PULLREQ_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case isCompletionScript(cmd):
			return nil
		case cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd:
			// completions fall back to a plain git client
			if err := loadApp(cmd.Context()); err != nil {
				log.Debug("completion without configuration", "error", err)
			}
			return nil
		}
		return loadApp(cmd.Context())
	},
}

// isCompletionScript reports whether cmd is the generated "completion"
// command or one of its shell subcommands.
func isCompletionScript(cmd *cobra.Command) bool {
	for c := cmd; c.HasParent(); c = c.Parent() {
		if c.Name() == "completion" && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: $PULLREQ_CONFIG or <user config dir>/pullreq/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: config log_level or info)")
	rootCmd.PersistentFlags().StringVarP(&repoDir, "dir", "C", ".", "Path to the git repository")
	rootCmd.PersistentFlags().StringVar(&remoteName, "remote", "", "Remote for branch names without a remote prefix (default: config default_remote or origin)")

	_ = rootCmd.RegisterFlagCompletionFunc("remote", completeRemotes)
}

// run executes the root command and returns the process exit code.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Debug("command failed", "error", err, "exit_code", prerrors.ExitCode(err))
		return prerrors.ExitCode(err)
	}
	return 0
}

func main() {
	os.Exit(run())
}
