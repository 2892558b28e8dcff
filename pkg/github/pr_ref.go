package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PRRef represents a parsed pull request reference. Owner and Repo are empty
// when the reference is a bare number.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

var (
	// Full URL pattern, any host (GitHub Enterprise included)
	prURLPattern = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+)/pull/(\d+)(?:/.*)?$`)
	// Short pattern
	shortRefPattern = regexp.MustCompile(`^([^/\s]+)/([^/#\s]+)#(\d+)$`)
	// Numeric only: 123 or #123
	numericPattern = regexp.MustCompile(`^#?(\d+)$`)
)

// ParsePRRef parses a pull request reference for the merge command.
// Supported formats:
//   - https://<host>/<owner>/<repo>/pull/<n> (PR URL)
//   - <owner>/<repo>#<n> (short form)
//   - #<n> or <n> (numeric only, repository taken from the remote)
func ParsePRRef(ref string) (*PRRef, error) {
	ref = strings.TrimSpace(ref)

	if matches := prURLPattern.FindStringSubmatch(ref); matches != nil {
		return newPRRef(matches[1], matches[2], matches[3])
	}

	if matches := shortRefPattern.FindStringSubmatch(ref); matches != nil {
		return newPRRef(matches[1], matches[2], matches[3])
	}

	if matches := numericPattern.FindStringSubmatch(ref); matches != nil {
		return newPRRef("", "", matches[1])
	}

	return nil, fmt.Errorf("invalid pull request reference %q (supported: full URLs, owner/repo#123, #123 or 123)", ref)
}

func newPRRef(owner, repo, number string) (*PRRef, error) {
	num, err := strconv.Atoi(number)
	if err != nil || num <= 0 {
		return nil, fmt.Errorf("invalid pull request number %q", number)
	}
	return &PRRef{Owner: owner, Repo: repo, Number: num}, nil
}

// HasRepo reports whether the reference names its repository.
func (r *PRRef) HasRepo() bool {
	return r.Owner != "" && r.Repo != ""
}

// String returns the string representation of the reference
func (r *PRRef) String() string {
	if r.HasRepo() {
		return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
	}
	return fmt.Sprintf("#%d", r.Number)
}
