package pullrequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
	"github.com/holon-run/pullreq/pkg/github"
	"github.com/holon-run/pullreq/pkg/log"
)

// Sender issues a single HTTP request and returns the raw response.
type Sender interface {
	Send(ctx context.Context, method, url string, headers http.Header, body []byte) (int, []byte, error)
}

// Result is the outcome of Service.Create.
type Result struct {
	PullRequest *github.PRInfo
	Merge       *github.MergeResult // nil unless a merge was requested
}

// Service sends pull request calls through a Sender. Every call is attempted
// exactly once.
type Service struct {
	sender Sender
}

// NewService creates a service sending through sender.
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// Create sends req and, when req.Merge is set, merges the new pull request
// with its title as commit message.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Result, error) {
	body, err := req.Encode()
	if err != nil {
		return nil, err
	}

	respBody, err := s.do(ctx, http.MethodPost, req.Endpoint, body)
	if err != nil {
		return nil, err
	}

	pr, err := github.DecodePullRequest(respBody)
	if err != nil {
		return nil, err
	}
	log.Info("created pull request", "number", pr.Number, "url", pr.URL)

	result := &Result{PullRequest: pr}
	if !req.Merge {
		return result, nil
	}

	merge, err := s.Merge(ctx, req.Endpoint, pr.Number, req.Payload.Title)
	if err != nil {
		return result, fmt.Errorf("pull request #%d created but not merged: %w", pr.Number, err)
	}
	result.Merge = merge
	return result, nil
}

type mergeRequest struct {
	CommitMessage string `json:"commit_message,omitempty"`
}

// Merge merges pull request number through PUT {pullsEndpoint}/{number}/merge.
// An empty commitMessage leaves the message to GitHub.
func (s *Service) Merge(ctx context.Context, pullsEndpoint string, number int, commitMessage string) (*github.MergeResult, error) {
	body, err := json.Marshal(mergeRequest{CommitMessage: commitMessage})
	if err != nil {
		return nil, fmt.Errorf("failed to encode merge request: %w", err)
	}

	url := fmt.Sprintf("%s/%d/merge", strings.TrimRight(pullsEndpoint, "/"), number)
	respBody, err := s.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return nil, err
	}

	res, err := github.DecodeMergeResult(respBody)
	if err != nil {
		return nil, err
	}
	log.Info("merged pull request", "number", number, "sha", res.SHA)
	return res, nil
}

// ListOpen returns the open pull requests at pullsEndpoint. Only the first
// page is read.
func (s *Service) ListOpen(ctx context.Context, pullsEndpoint string) ([]*github.PRInfo, error) {
	respBody, err := s.do(ctx, http.MethodGet, pullsEndpoint+"?state=open", nil)
	if err != nil {
		return nil, err
	}
	return github.DecodePullRequests(respBody)
}

// ListMilestones returns the open milestones at milestonesEndpoint. Only the
// first page is read.
func (s *Service) ListMilestones(ctx context.Context, milestonesEndpoint string) ([]*github.MilestoneInfo, error) {
	respBody, err := s.do(ctx, http.MethodGet, milestonesEndpoint+"?state=open", nil)
	if err != nil {
		return nil, err
	}
	return github.DecodeMilestones(respBody)
}

// do sends one request and turns an API error response into a RequestError
// carrying the API's message.
func (s *Service) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	status, respBody, err := s.sender.Send(ctx, method, url, nil, body)
	if err != nil {
		return nil, err
	}

	if err := github.CheckResponse(status, respBody); err != nil {
		reqErr := &prerrors.RequestError{
			Method:     method,
			URL:        url,
			StatusCode: status,
			Message:    err.Error(),
			Err:        err,
		}
		var apiErr *github.APIError
		if errors.As(err, &apiErr) {
			reqErr.Message = apiErr.Detail()
		}
		log.Debug("request rejected", "method", method, "url", url, "status", status, "message", reqErr.Message)
		return nil, reqErr
	}
	return respBody, nil
}
