package main

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/holon-run/pullreq/pkg/log"
)

var (
	createHead      string
	createMerge     bool
	createDryRun    bool
	createNoBrowser bool
)

var createCmd = &cobra.Command{
	Use:   "create <base>",
	Short: "Create a pull request onto a base branch",
	Long: `Create a pull request onto <base>, given as <remote>/<branch> or as a
bare branch of the default remote.

Without --head, the head is the current branch as pushed to the remote named
after your login, i.e. <login>/<current branch>. The title names both
branches and the body quotes the latest commit subject of the head.

Examples:
  pullreq create alice/master                      # bob/feature-x onto alice/master
  pullreq create alice/master --head bob/fix-123   # explicit head
  pullreq create alice/master --merge              # create, then merge
  pullreq create alice/master --dry-run            # print the request only`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBaseArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := current

		if !createDryRun {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
		}
		if err := a.requireRepo(ctx); err != nil {
			return err
		}

		req, err := a.builder().BuildCreateRequest(ctx, args[0], createHead, createMerge)
		if err != nil {
			return err
		}
		log.Debug("built create request", "endpoint", req.Endpoint, "head", req.Payload.Head, "base", req.Payload.Base)

		if createDryRun {
			body, err := req.Encode()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "POST %s\n%s\n", req.Endpoint, body)
			if req.Merge {
				fmt.Fprintf(cmd.OutOrStdout(), "PUT %s/{number}/merge\n", req.Endpoint)
			}
			return nil
		}

		res, err := a.service().Create(ctx, req)
		if res != nil && res.PullRequest != nil {
			fmt.Fprintln(cmd.OutOrStdout(), res.PullRequest.URL)
		}
		if err != nil {
			return err
		}
		if res.Merge != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "merged %s: %s\n", shortSHA(res.Merge.SHA), res.Merge.Message)
		}

		if !createNoBrowser && res.PullRequest.URL != "" {
			// the pull request exists at this point; a browser failure is not fatal
			if err := browser.OpenURL(res.PullRequest.URL); err != nil {
				log.Warn("failed to open browser", "url", res.PullRequest.URL, "error", err)
			}
		}
		return nil
	},
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func init() {
	createCmd.Flags().StringVar(&createHead, "head", "", "Head branch as <remote>/<branch> (default: <login>/<current branch>)")
	createCmd.Flags().BoolVar(&createMerge, "merge", false, "Merge the pull request after creating it")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Print the request instead of sending it")
	createCmd.Flags().BoolVar(&createNoBrowser, "no-browser", false, "Do not open the pull request in a browser")

	_ = createCmd.RegisterFlagCompletionFunc("head", completeBranches)
	rootCmd.AddCommand(createCmd)
}
