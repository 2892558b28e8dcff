package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// APIError represents a GitHub API error response
type APIError struct {
	StatusCode int
	Message    string
	Errors     []APIErrorDetail `json:"errors,omitempty"`
	// DocumentationURL is the link GitHub attaches to most errors
	DocumentationURL string
}

// APIErrorDetail represents individual error details from GitHub
type APIErrorDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Error returns the error message
func (e *APIError) Error() string {
	msg := e.Detail()
	if msg != "" {
		return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("GitHub API error (status %d)", e.StatusCode)
}

// Detail returns the API message followed by the messages of individual
// error details, e.g. "Validation Failed: A pull request already exists for bob:feature-x."
func (e *APIError) Detail() string {
	var details []string
	for _, d := range e.Errors {
		switch {
		case d.Message != "":
			details = append(details, d.Message)
		case d.Field != "" && d.Code != "":
			details = append(details, fmt.Sprintf("%s %s", d.Field, d.Code))
		}
	}
	if len(details) == 0 {
		return e.Message
	}
	if e.Message == "" {
		return strings.Join(details, "; ")
	}
	return e.Message + ": " + strings.Join(details, "; ")
}

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsAuthenticationError returns true if the error is an authentication error
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// CheckResponse returns nil for a 2xx status and an *APIError carrying the
// API's message otherwise.
func CheckResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return parseErrorResponse(statusCode, body)
}

// parseErrorResponse parses an error response from GitHub
func parseErrorResponse(statusCode int, body []byte) *APIError {
	var apiErr APIError
	apiErr.StatusCode = statusCode

	// Try to parse as GitHub error response
	var githubErr struct {
		Message          string           `json:"message"`
		Errors           []APIErrorDetail `json:"errors"`
		DocumentationURL string           `json:"documentation_url"`
	}
	if err := json.Unmarshal(body, &githubErr); err == nil {
		apiErr.Message = githubErr.Message
		apiErr.Errors = githubErr.Errors
		apiErr.DocumentationURL = githubErr.DocumentationURL
	} else {
		// If parsing fails, use the body as the message
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" && len(apiErr.Errors) == 0 {
		apiErr.Message = http.StatusText(statusCode)
	}

	return &apiErr
}

// fromGitHubError converts a go-github error into an *APIError so callers see
// one error type regardless of how the request was sent.
func fromGitHubError(err error) error {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return err
	}
	apiErr := &APIError{
		StatusCode:       ghErr.Response.StatusCode,
		Message:          ghErr.Message,
		DocumentationURL: ghErr.DocumentationURL,
	}
	for _, e := range ghErr.Errors {
		apiErr.Errors = append(apiErr.Errors, APIErrorDetail{
			Resource: e.Resource,
			Field:    e.Field,
			Code:     e.Code,
			Message:  e.Message,
		})
	}
	return apiErr
}
