package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var milestonesCmd = &cobra.Command{
	Use:               "milestones [remote]",
	Short:             "List open milestones of a remote's repository",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeRemoteArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := current

		if err := a.cfg.Validate(); err != nil {
			return err
		}
		endpoint, err := a.resolver.APIURL(ctx, a.remoteArg(args), "milestones")
		if err != nil {
			return err
		}

		milestones, err := a.service().ListMilestones(ctx, endpoint)
		if err != nil {
			return err
		}
		if len(milestones) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no open milestones")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, m := range milestones {
			due := "-"
			if m.DueOn != nil {
				due = m.DueOn.Format("2006-01-02")
			}
			fmt.Fprintf(w, "#%d\t%s\t%d open, %d closed\tdue %s\n", m.Number, m.Title, m.OpenIssues, m.ClosedIssues, due)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(milestonesCmd)
}
