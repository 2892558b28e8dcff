package github

import "time"

// PRInfo contains basic pull request information
type PRInfo struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	State      string    `json:"state"`
	URL        string    `json:"url"`
	APIURL     string    `json:"api_url"`
	BaseRef    string    `json:"base_ref"`
	HeadRef    string    `json:"head_ref"`
	BaseLabel  string    `json:"base_label"` // owner:branch
	HeadLabel  string    `json:"head_label"` // owner:branch
	Author     string    `json:"author"`
	Draft      bool      `json:"draft"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Repository string    `json:"repository"`
}

// MilestoneInfo contains basic milestone information
type MilestoneInfo struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	State        string     `json:"state"`
	URL          string     `json:"url"`
	OpenIssues   int        `json:"open_issues"`
	ClosedIssues int        `json:"closed_issues"`
	DueOn        *time.Time `json:"due_on,omitempty"`
}

// MergeResult is the outcome of merging a pull request
type MergeResult struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

// ActorInfo represents the authenticated GitHub user or app
type ActorInfo struct {
	Login string `json:"login"`          // Username or app name
	Name  string `json:"name,omitempty"` // Display name
	Type  string `json:"type"`           // "User", "Bot" or "Organization"
	URL   string `json:"url,omitempty"`
}
