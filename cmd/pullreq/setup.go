package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holon-run/pullreq/pkg/config"
	prerrors "github.com/holon-run/pullreq/pkg/errors"
	"github.com/holon-run/pullreq/pkg/log"
)

var (
	setupLogin         string
	setupToken         string
	setupSignature     string
	setupDefaultRemote string
	setupAPIURL        string
	setupNoVerify      bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store the GitHub login and token",
	Long: `Store the account settings used by every other command in the config file.

The token is checked against the GitHub API before anything is written, and
the login defaults to the account the token belongs to. Values not given as
flags keep their current setting in the file; a token or API URL taken from
the environment is used for the check but never written.

Example usage:
  pullreq setup --token ghp_xxx                       # login taken from the token
  pullreq setup --login bob --token ghp_xxx --signature "-- Bob"
  pullreq setup --api-url https://ghe.example.com/api/v3 --token xxx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := current

		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}

		// stored is what gets written back: the file plus the flags given here.
		// Environment values and defaults only take part in the token check.
		stored, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		stored.Login, _ = config.ResolveString(setupLogin, stored.Login, "")
		stored.Token, _ = config.ResolveString(setupToken, stored.Token, "")
		stored.Signature, _ = config.ResolveString(setupSignature, stored.Signature, "")
		stored.DefaultRemote, _ = config.ResolveString(setupDefaultRemote, stored.DefaultRemote, "")
		stored.APIURL, _ = config.ResolveString(setupAPIURL, stored.APIURL, "")

		effective := *a.cfg
		effective.Login, _ = config.ResolveString(setupLogin, effective.Login, "")
		effective.Token, _ = config.ResolveString(setupToken, effective.Token, "")
		effective.APIURL, _ = config.ResolveString(setupAPIURL, effective.APIURL, "")

		if effective.Token == "" {
			return &prerrors.PreconditionError{Key: "token", Hint: "pass --token"}
		}

		if !setupNoVerify {
			verifier := &app{cfg: &effective}
			user, err := verifier.githubClient().CurrentUser(ctx)
			if err != nil {
				return fmt.Errorf("token check failed: %w", err)
			}
			switch {
			case stored.Login == "":
				stored.Login = user.Login
				effective.Login = user.Login
			case stored.Login != user.Login:
				log.Warn("login differs from the token's account", "login", stored.Login, "account", user.Login)
			}
			log.Debug("token verified", "account", user.Login, "type", user.Type)
		}

		if err := effective.Validate(); err != nil {
			return err
		}

		if err := config.Save(path, stored); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "configured %s in %s\n", effective.Login, path)
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupLogin, "login", "", "GitHub login (default: the token's account)")
	setupCmd.Flags().StringVar(&setupToken, "token", "", "GitHub OAuth or personal access token")
	setupCmd.Flags().StringVar(&setupSignature, "signature", "", "Text appended to every pull request body")
	setupCmd.Flags().StringVar(&setupDefaultRemote, "default-remote", "", "Remote for branch names without a remote prefix")
	setupCmd.Flags().StringVar(&setupAPIURL, "api-url", "", "API root replacing https://api.<host> (GitHub Enterprise)")
	setupCmd.Flags().BoolVar(&setupNoVerify, "no-verify", false, "Skip checking the token against the API")
	rootCmd.AddCommand(setupCmd)
}
