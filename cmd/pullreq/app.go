package main

import (
	"context"
	"fmt"
	"os"

	"github.com/holon-run/pullreq/pkg/config"
	"github.com/holon-run/pullreq/pkg/git"
	"github.com/holon-run/pullreq/pkg/github"
	"github.com/holon-run/pullreq/pkg/log"
	"github.com/holon-run/pullreq/pkg/pullrequest"
	"github.com/holon-run/pullreq/pkg/remote"
)

// app holds what every command shares, built once per invocation.
type app struct {
	cfg           *config.Config
	git           *git.Client
	resolver      *remote.Resolver
	defaultRemote string
}

var current *app

// loadApp reads the configuration, initializes logging and wires the git
// and remote collaborators.
func loadApp(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, levelSource := cfg.ResolveLogLevel(logLevel)
	if err := log.Init(level, os.Stderr); err != nil {
		return err
	}

	gitClient := git.NewClient(repoDir)

	// git config github.user is the conventional place for the login
	if cfg.Login == "" {
		if login, ok, err := gitClient.ConfigGet(ctx, "github.user"); err == nil && ok {
			cfg.Login = login
			log.Debug("using login from git config", "login", login)
		}
	}

	var resolverOpts []remote.Option
	if cfg.APIURL != "" {
		resolverOpts = append(resolverOpts, remote.WithAPIBaseURL(cfg.APIURL))
	}

	defaultRemote, remoteSource := cfg.ResolveRemote(remoteName)
	log.Debug("configuration loaded",
		"login", cfg.Login,
		"default_remote", defaultRemote, "default_remote_source", remoteSource,
		"log_level", level, "log_level_source", levelSource,
		"api_url", cfg.APIURL)

	current = &app{
		cfg:           cfg,
		git:           gitClient,
		resolver:      remote.NewResolver(gitClient, resolverOpts...),
		defaultRemote: defaultRemote,
	}
	return nil
}

// githubClient returns a client authenticated with the configured token.
func (a *app) githubClient() *github.Client {
	var opts []github.ClientOption
	if a.cfg.APIURL != "" {
		opts = append(opts, github.WithBaseURL(a.cfg.APIURL))
	}
	return github.NewClient(a.cfg.Token, opts...)
}

func (a *app) builder() *pullrequest.Builder {
	return pullrequest.NewBuilder(a.git, a.resolver, pullrequest.Options{
		Login:         a.cfg.Login,
		Signature:     a.cfg.Signature,
		DefaultRemote: a.defaultRemote,
	})
}

func (a *app) service() *pullrequest.Service {
	return pullrequest.NewService(a.githubClient())
}

// remoteArg returns the remote named by args, or the default remote.
func (a *app) remoteArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.defaultRemote
}

// requireRepo fails with a readable error outside a git repository.
func (a *app) requireRepo(ctx context.Context) error {
	if !a.git.IsRepo(ctx) {
		return fmt.Errorf("%s is not a git repository", a.git.Dir)
	}
	return nil
}
