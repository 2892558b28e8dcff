// Package pullrequest assembles GitHub create-pull-request calls from local
// branch state and sends them.
//
// Builder turns a base branch argument and an optional head argument into a
// CreateRequest: the pulls endpoint of the base repository plus the JSON
// payload. Every check (remote configured, refs valid, base differs from head)
// runs before any request is produced. Service sends built requests and
// the follow-up merge and listing calls.
package pullrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
	"github.com/holon-run/pullreq/pkg/log"
	"github.com/holon-run/pullreq/pkg/remote"
)

// DefaultRemote is the alias used for bare branch names when Options leaves it empty.
const DefaultRemote = "origin"

// VCS is the version-control capability the builder needs.
type VCS interface {
	remote.URLSource
	VerifyRef(ctx context.Context, name string) bool
	CurrentBranch(ctx context.Context) (string, error)
	LastCommitSubject(ctx context.Context, ref string) (string, error)
}

// Options carries the account configuration read once at startup.
type Options struct {
	// Login is the GitHub account login. It names the head owner and the
	// head remote when no head argument is given.
	Login string

	// Signature is appended to the body after a blank line when set.
	Signature string

	// DefaultRemote is the remote alias for bare branch names.
	DefaultRemote string
}

// BranchSpec is a branch in a GitHub repository reached through a git remote.
type BranchSpec struct {
	RemoteAlias string
	Owner       string
	Branch      string
}

// Ref returns "<remote>/<branch>", the remote-tracking ref of the branch.
func (b BranchSpec) Ref() string {
	return b.RemoteAlias + "/" + b.Branch
}

// Label returns "<owner>:<branch>" as used in the head and base fields.
func (b BranchSpec) Label() string {
	return b.Owner + ":" + b.Branch
}

func (b BranchSpec) String() string {
	return b.Owner + "/" + b.Branch
}

// Payload is the create-pull-request request body.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

// CreateRequest is a fully validated create-pull-request call.
type CreateRequest struct {
	Endpoint string
	Payload  Payload
	Merge    bool
	Base     BranchSpec
	Head     BranchSpec
}

// Encode returns the JSON request body.
func (r *CreateRequest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Payload); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Builder builds create-pull-request calls.
type Builder struct {
	vcs      VCS
	resolver *remote.Resolver
	opts     Options
}

// NewBuilder creates a builder. A nil resolver resolves remotes through vcs.
func NewBuilder(vcs VCS, resolver *remote.Resolver, opts Options) *Builder {
	if resolver == nil {
		resolver = remote.NewResolver(vcs)
	}
	if opts.DefaultRemote == "" {
		opts.DefaultRemote = DefaultRemote
	}
	return &Builder{vcs: vcs, resolver: resolver, opts: opts}
}

// BuildCreateRequest resolves baseArg and headArg ("<remote>/<branch>" or a
// bare branch in the default remote) and returns the request to send. An
// empty headArg means the current branch pushed under the account login,
// which must then be set.
func (b *Builder) BuildCreateRequest(ctx context.Context, baseArg, headArg string, merge bool) (*CreateRequest, error) {
	// the login only names the implicit head
	if headArg == "" && b.opts.Login == "" {
		return nil, &prerrors.PreconditionError{Key: "login", Hint: "run 'pullreq setup', set PULLREQ_LOGIN or pass --head"}
	}

	base, err := b.resolveBranch(ctx, baseArg)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved base", "remote", base.RemoteAlias, "owner", base.Owner, "branch", base.Branch)

	var head BranchSpec
	if headArg == "" {
		branch, err := b.vcs.CurrentBranch(ctx)
		if err != nil {
			return nil, &prerrors.RefNotFoundError{Ref: "HEAD", Err: err}
		}
		head = BranchSpec{RemoteAlias: b.opts.Login, Owner: b.opts.Login, Branch: branch}
	} else {
		head, err = b.resolveBranch(ctx, headArg)
		if err != nil {
			return nil, err
		}
	}
	log.Debug("resolved head", "remote", head.RemoteAlias, "owner", head.Owner, "branch", head.Branch)

	if base.Owner == head.Owner && base.Branch == head.Branch {
		return nil, &prerrors.SameRefError{Owner: base.Owner, Branch: base.Branch}
	}

	subject, err := b.vcs.LastCommitSubject(ctx, head.Ref())
	if err != nil {
		return nil, &prerrors.RefNotFoundError{Ref: head.Ref(), Err: err}
	}

	endpoint, err := b.resolver.APIURL(ctx, base.RemoteAlias, "pulls")
	if err != nil {
		return nil, err
	}

	return &CreateRequest{
		Endpoint: endpoint,
		Payload: Payload{
			Title: Title(base, head),
			Body:  Body(subject, b.opts.Signature),
			Head:  head.Label(),
			Base:  base.Label(),
		},
		Merge: merge,
		Base:  base,
		Head:  head,
	}, nil
}

// resolveBranch parses arg, resolves the owner of its remote and verifies
// that arg, as typed, is a git reference.
func (b *Builder) resolveBranch(ctx context.Context, arg string) (BranchSpec, error) {
	alias, branch := SplitBranchArg(arg, b.opts.DefaultRemote)

	owner, err := b.resolver.Owner(ctx, alias)
	if err != nil {
		return BranchSpec{}, err
	}

	if !b.vcs.VerifyRef(ctx, arg) {
		return BranchSpec{}, &prerrors.RefNotFoundError{Ref: arg}
	}

	return BranchSpec{RemoteAlias: alias, Owner: owner, Branch: branch}, nil
}

// SplitBranchArg splits "<remote>/<branch>" at the first slash. A token
// without a slash is a branch in defaultRemote.
func SplitBranchArg(arg, defaultRemote string) (alias, branch string) {
	if i := strings.Index(arg, "/"); i >= 0 {
		return arg[:i], arg[i+1:]
	}
	return defaultRemote, arg
}

// Title returns the pull request title.
func Title(base, head BranchSpec) string {
	return fmt.Sprintf("Pull request to %s from %s", base, head)
}

// Body returns the pull request body for the latest commit subject.
// Double quotes are removed from the subject.
func Body(subject, signature string) string {
	body := "Latest commit: " + strings.ReplaceAll(subject, `"`, "")
	if signature != "" {
		body += "\n\n" + signature
	}
	return body
}
