package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// DecodePullRequest decodes a pull request response body
func DecodePullRequest(body []byte) (*PRInfo, error) {
	var pr github.PullRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to decode pull request: %w", err)
	}
	return convertFromGitHubPR(&pr), nil
}

// DecodePullRequests decodes a pull request list response body
func DecodePullRequests(body []byte) ([]*PRInfo, error) {
	var prs []*github.PullRequest
	if err := json.Unmarshal(body, &prs); err != nil {
		return nil, fmt.Errorf("failed to decode pull requests: %w", err)
	}

	result := make([]*PRInfo, 0, len(prs))
	for _, pr := range prs {
		result = append(result, convertFromGitHubPR(pr))
	}
	return result, nil
}

// convertFromGitHubPR converts a github.PullRequest to our PRInfo type
func convertFromGitHubPR(pr *github.PullRequest) *PRInfo {
	info := &PRInfo{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		URL:       pr.GetHTMLURL(),
		APIURL:    pr.GetURL(),
		Draft:     pr.GetDraft(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}

	if base := pr.GetBase(); base != nil {
		info.BaseRef = base.GetRef()
		info.BaseLabel = base.GetLabel()
		if repo := base.GetRepo(); repo != nil {
			info.Repository = repo.GetFullName()
		}
	}

	if head := pr.GetHead(); head != nil {
		info.HeadRef = head.GetRef()
		info.HeadLabel = head.GetLabel()
	}

	if user := pr.GetUser(); user != nil {
		info.Author = user.GetLogin()
	}

	return info
}

// DecodeMilestones decodes a milestone list response body
func DecodeMilestones(body []byte) ([]*MilestoneInfo, error) {
	var milestones []*github.Milestone
	if err := json.Unmarshal(body, &milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %w", err)
	}

	result := make([]*MilestoneInfo, 0, len(milestones))
	for _, m := range milestones {
		info := &MilestoneInfo{
			Number:       m.GetNumber(),
			Title:        m.GetTitle(),
			Description:  m.GetDescription(),
			State:        m.GetState(),
			URL:          m.GetHTMLURL(),
			OpenIssues:   m.GetOpenIssues(),
			ClosedIssues: m.GetClosedIssues(),
		}
		if m.DueOn != nil {
			due := m.GetDueOn().Time
			info.DueOn = &due
		}
		result = append(result, info)
	}
	return result, nil
}

// DecodeMergeResult decodes a merge response body
func DecodeMergeResult(body []byte) (*MergeResult, error) {
	var res github.PullRequestMergeResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode merge result: %w", err)
	}
	return &MergeResult{
		SHA:     res.GetSHA(),
		Merged:  res.GetMerged(),
		Message: res.GetMessage(),
	}, nil
}

// CurrentUser returns the account the token authenticates as
func (c *Client) CurrentUser(ctx context.Context) (*ActorInfo, error) {
	user, _, err := c.GitHubClient().Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", fromGitHubError(err))
	}

	return &ActorInfo{
		Login: user.GetLogin(),
		Name:  user.GetName(),
		Type:  user.GetType(),
		URL:   user.GetHTMLURL(),
	}, nil
}
