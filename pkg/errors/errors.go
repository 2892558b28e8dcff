// Package errors defines the error taxonomy shared by the remote resolver,
// the pull request builder and the CLI. Every kind has a struct type carrying
// the details of the failed check and a sentinel so callers can use errors.Is.
// The CLI maps each kind to a distinct exit code.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per kind.
var (
	// ErrConfig indicates a remote is not configured or its URL is unparseable.
	ErrConfig = errors.New("configuration error")

	// ErrRefNotFound indicates a branch argument is not a valid git reference.
	ErrRefNotFound = errors.New("reference not found")

	// ErrSameRef indicates base and head resolve to the same owner/branch.
	ErrSameRef = errors.New("base and head are the same")

	// ErrRequest indicates the GitHub API reported an error.
	ErrRequest = errors.New("request failed")

	// ErrPrecondition indicates required account configuration is missing.
	ErrPrecondition = errors.New("precondition failed")
)

// ConfigError reports a remote that is missing or cannot be parsed.
type ConfigError struct {
	Remote string // remote alias, may be empty when only a URL was parsed
	URL    string // raw remote URL, empty when the remote is not configured
	Reason string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Remote != "" && e.URL != "":
		return fmt.Sprintf("remote %q (%s): %s", e.Remote, e.URL, e.Reason)
	case e.Remote != "":
		return fmt.Sprintf("remote %q: %s", e.Remote, e.Reason)
	case e.URL != "":
		return fmt.Sprintf("remote URL %q: %s", e.URL, e.Reason)
	default:
		return e.Reason
	}
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// RefNotFoundError reports a branch argument that does not resolve to a ref.
type RefNotFoundError struct {
	Ref string
	Err error // underlying git error, optional
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("%q is not a valid git reference", e.Ref)
}

func (e *RefNotFoundError) Is(target error) bool { return target == ErrRefNotFound }

func (e *RefNotFoundError) Unwrap() error { return e.Err }

// SameRefError reports a pull request whose base and head are identical.
type SameRefError struct {
	Owner  string
	Branch string
}

func (e *SameRefError) Error() string {
	return fmt.Sprintf("cannot create a pull request from %s/%s onto itself", e.Owner, e.Branch)
}

func (e *SameRefError) Is(target error) bool { return target == ErrSameRef }

// RequestError carries the error message reported by the GitHub API.
// Message is the API's own text, not reinterpreted.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.URL, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
}

func (e *RequestError) Is(target error) bool { return target == ErrRequest }

func (e *RequestError) Unwrap() error { return e.Err }

// PreconditionError reports missing account configuration.
type PreconditionError struct {
	Key  string // configuration key, e.g. "login"
	Hint string // how to supply it
}

func (e *PreconditionError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s is not configured: %s", e.Key, e.Hint)
	}
	return fmt.Sprintf("%s is not configured", e.Key)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// Exit codes returned by the CLI.
const (
	ExitGeneral      = 1
	ExitPrecondition = 2
	ExitConfig       = 3
	ExitRef          = 4
	ExitRequest      = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrPrecondition):
		return ExitPrecondition
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrRefNotFound), errors.Is(err, ErrSameRef):
		return ExitRef
	case errors.Is(err, ErrRequest):
		return ExitRequest
	default:
		return ExitGeneral
	}
}
