package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [remote]",
	Short: "List open pull requests of a remote's repository",
	Long: `List the open pull requests of the repository a remote points to
(default: the default remote). Only the first page of results is shown.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeRemoteArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := current

		if err := a.cfg.Validate(); err != nil {
			return err
		}
		endpoint, err := a.resolver.APIURL(ctx, a.remoteArg(args), "pulls")
		if err != nil {
			return err
		}

		prs, err := a.service().ListOpen(ctx, endpoint)
		if err != nil {
			return err
		}
		if len(prs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no open pull requests")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, pr := range prs {
			title := pr.Title
			if pr.Draft {
				title = "[draft] " + title
			}
			fmt.Fprintf(w, "#%d\t%s\t%s -> %s\t%s\n", pr.Number, title, pr.HeadLabel, pr.BaseLabel, pr.URL)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
