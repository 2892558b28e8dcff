package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the configured login and the token's account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.cfg.Validate(); err != nil {
			return err
		}

		user, err := a.githubClient().CurrentUser(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "login: %s\n", a.cfg.Login)
		fmt.Fprintf(cmd.OutOrStdout(), "token account: %s (%s)\n", user.Login, user.Type)
		if a.cfg.Login != user.Login {
			fmt.Fprintln(cmd.OutOrStdout(), "warning: login and token account differ")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
