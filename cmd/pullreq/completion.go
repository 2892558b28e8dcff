package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/holon-run/pullreq/pkg/git"
)

// completionGit returns a git client for shell completion. Completion runs
// the root pre-run hook too, but falls back to the -C flag if it failed.
func completionGit() *git.Client {
	if current != nil {
		return current.git
	}
	return git.NewClient(repoDir)
}

// completeBranches completes <remote>/<branch> from remote-tracking branches.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	branches, err := completionGit().RemoteBranches(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var matches []string
	for _, b := range branches {
		if strings.HasPrefix(b, toComplete) {
			matches = append(matches, b)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeBaseArg completes the single <base> argument.
func completeBaseArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeBranches(cmd, args, toComplete)
}

// completeRemotes completes configured remote names.
func completeRemotes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	remotes, err := completionGit().Remotes(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var matches []string
	for _, r := range remotes {
		if strings.HasPrefix(r, toComplete) {
			matches = append(matches, r)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeRemoteArg completes the optional single [remote] argument.
func completeRemoteArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeRemotes(cmd, args, toComplete)
}

// completeMergeArgs completes the [remote] argument after <number>.
func completeMergeArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeRemotes(cmd, nil, toComplete)
}
