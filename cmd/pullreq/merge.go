package main

import (
	"fmt"

	"github.com/spf13/cobra"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
	"github.com/holon-run/pullreq/pkg/github"
)

var mergeMessage string

var mergeCmd = &cobra.Command{
	Use:   "merge <number> [remote]",
	Short: "Merge a pull request",
	Long: `Merge a pull request of the repository a remote points to.

<number> is 123, #123, owner/repo#123 or a pull request URL. When it names a
repository, that repository must be the one the remote points to.`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeMergeArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := current

		if err := a.cfg.Validate(); err != nil {
			return err
		}

		prRef, err := github.ParsePRRef(args[0])
		if err != nil {
			return err
		}

		ref, err := a.resolver.Resolve(ctx, a.remoteArg(args[1:]))
		if err != nil {
			return err
		}
		if prRef.HasRepo() && (prRef.Owner != ref.Owner || prRef.Repo != ref.Repo) {
			return &prerrors.ConfigError{
				Remote: ref.Alias,
				URL:    ref.URL,
				Reason: fmt.Sprintf("points to %s, not %s/%s", ref.FullName(), prRef.Owner, prRef.Repo),
			}
		}

		res, err := a.service().Merge(ctx, ref.APIURL("pulls"), prRef.Number, mergeMessage)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "merged %s#%d as %s: %s\n", ref.FullName(), prRef.Number, shortSHA(res.SHA), res.Message)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeMessage, "message", "m", "", "Merge commit message (default: chosen by GitHub)")
	rootCmd.AddCommand(mergeCmd)
}
