// Package remote resolves git remotes to GitHub repositories. It reads the
// configured URL of a remote, extracts the owning account and repository name,
// and builds REST endpoint URLs for the repository. Resolution is a pure
// function of the git configuration: no network calls are made.
package remote

import (
	"context"
	"fmt"
	"strings"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
)

// URLSource reads configured remote URLs. ok is false when the remote is not configured.
type URLSource interface {
	RemoteURL(ctx context.Context, alias string) (url string, ok bool, err error)
}

// Ref is a resolved git remote.
type Ref struct {
	Alias string // local remote name, e.g. "origin"
	Owner string // GitHub account or organization
	Repo  string
	Host  string
	URL   string // raw remote URL

	apiBase string
}

// APIURL returns https://api.<host>/repos/<owner>/<repo>/<resource>.
func (r *Ref) APIURL(resource string) string {
	return fmt.Sprintf("%s/repos/%s/%s/%s", r.apiBase, r.Owner, r.Repo, strings.TrimPrefix(resource, "/"))
}

// FullName returns "owner/repo".
func (r *Ref) FullName() string {
	return r.Owner + "/" + r.Repo
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAPIBaseURL replaces https://api.<host> as the root of every endpoint.
func WithAPIBaseURL(baseURL string) Option {
	return func(r *Resolver) {
		r.apiBase = strings.TrimRight(baseURL, "/")
	}
}

// Resolver maps remote aliases to GitHub repositories.
type Resolver struct {
	source  URLSource
	apiBase string
}

// NewResolver creates a resolver reading remote URLs from source.
func NewResolver(source URLSource, opts ...Option) *Resolver {
	r := &Resolver{source: source}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve reads and parses the URL of remote alias.
func (r *Resolver) Resolve(ctx context.Context, alias string) (*Ref, error) {
	if alias == "" {
		return nil, &prerrors.ConfigError{Reason: "remote name is empty"}
	}

	raw, ok, err := r.source.RemoteURL(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote %q: %w", alias, err)
	}
	if !ok {
		return nil, &prerrors.ConfigError{Remote: alias, Reason: "remote is not configured"}
	}

	u, err := ParseURL(raw)
	if err != nil {
		if cfgErr, ok := err.(*prerrors.ConfigError); ok {
			cfgErr.Remote = alias
		}
		return nil, err
	}

	apiBase := r.apiBase
	if apiBase == "" {
		apiBase = u.APIBase()
	}

	return &Ref{
		Alias:   alias,
		Owner:   u.Owner,
		Repo:    u.Repo,
		Host:    u.Host,
		URL:     raw,
		apiBase: apiBase,
	}, nil
}

// Owner returns the account or organization owning the repository of remote alias.
func (r *Resolver) Owner(ctx context.Context, alias string) (string, error) {
	ref, err := r.Resolve(ctx, alias)
	if err != nil {
		return "", err
	}
	return ref.Owner, nil
}

// APIURL returns the REST endpoint of resource (e.g. "pulls", "milestones")
// in the repository of remote alias.
func (r *Resolver) APIURL(ctx context.Context, alias, resource string) (string, error) {
	ref, err := r.Resolve(ctx, alias)
	if err != nil {
		return "", err
	}
	return ref.APIURL(resource), nil
}
