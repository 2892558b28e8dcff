package remote

import (
	"regexp"
	"strings"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
)

// Accepted remote URL grammars:
//   - scheme://[user@]host[:port]/owner/.../repo[.git][/]
//   - [user@]host:owner/.../repo[.git][/]   (SCP-like)
var (
	schemeURLRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.-]*)://(?:[^@/]*@)?([^/:@]+)(?::[0-9]*)?(/.*)?$`)
	scpURLRegex    = regexp.MustCompile(`^(?:[^@/:]+@)?([^/:@]+):(.*)$`)
)

// URL is a parsed git remote URL.
type URL struct {
	Raw   string
	Host  string // lower-cased, without port or userinfo
	Owner string // first path segment
	Repo  string // final path segment, trailing .git removed
}

// ParseURL parses a git remote URL in either accepted grammar. Rejected input
// yields a *errors.ConfigError naming the violated rule.
func ParseURL(raw string) (*URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, urlError(raw, "remote URL is empty")
	}

	var host, path string
	if matches := schemeURLRegex.FindStringSubmatch(s); matches != nil {
		host, path = matches[2], matches[3]
	} else if strings.Contains(s, "://") {
		return nil, urlError(raw, "expected scheme://host/owner/repo")
	} else if matches := scpURLRegex.FindStringSubmatch(s); matches != nil {
		host, path = matches[1], matches[2]
	} else {
		return nil, urlError(raw, "expected scheme://host/owner/repo or host:owner/repo")
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return nil, urlError(raw, "missing owner and repository")
	}
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return nil, urlError(raw, "missing repository name")
	}

	owner := segments[0]
	repo := strings.TrimSuffix(segments[len(segments)-1], ".git")
	if owner == "" {
		return nil, urlError(raw, "missing owner")
	}
	if repo == "" {
		return nil, urlError(raw, "missing repository name")
	}

	return &URL{
		Raw:   raw,
		Host:  strings.ToLower(host),
		Owner: owner,
		Repo:  repo,
	}, nil
}

// APIBase returns the REST API root for the URL's host.
func (u *URL) APIBase() string {
	return "https://api." + u.Host
}

// FullName returns "owner/repo".
func (u *URL) FullName() string {
	return u.Owner + "/" + u.Repo
}

func urlError(raw, reason string) error {
	return &prerrors.ConfigError{URL: raw, Reason: reason}
}
