package pullrequest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
	"github.com/holon-run/pullreq/pkg/github"
)

type sentRequest struct {
	Method string
	URL    string
	Body   string
}

type response struct {
	status int
	body   string
	err    error
}

// fakeSender replays queued responses and records what was sent.
type fakeSender struct {
	responses []response
	sent      []sentRequest
}

func (f *fakeSender) Send(_ context.Context, method, url string, _ http.Header, body []byte) (int, []byte, error) {
	f.sent = append(f.sent, sentRequest{Method: method, URL: url, Body: string(body)})
	if len(f.responses) == 0 {
		return 0, nil, errors.New("unexpected request")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.status, []byte(r.body), r.err
}

const createdPR = `{"number":13,"html_url":"https://github.com/alice/proj/pull/13","title":"Pull request to alice/master from bob/feature-x","state":"open","head":{"label":"bob:feature-x","ref":"feature-x"},"base":{"label":"alice:master","ref":"master","repo":{"full_name":"alice/proj"}}}`

func buildRequest(t *testing.T, merge bool) *CreateRequest {
	t.Helper()
	req, err := NewBuilder(newFakeVCS(), nil, Options{Login: "bob"}).
		BuildCreateRequest(context.Background(), "alice/master", "", merge)
	require.NoError(t, err)
	return req
}

func TestServiceCreate(t *testing.T) {
	sender := &fakeSender{responses: []response{{status: 201, body: createdPR}}}
	svc := NewService(sender)

	res, err := svc.Create(context.Background(), buildRequest(t, false))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, http.MethodPost, sender.sent[0].Method)
	assert.Equal(t, "https://api.github.com/repos/alice/proj/pulls", sender.sent[0].URL)
	assert.JSONEq(t, `{
		"title": "Pull request to alice/master from bob/feature-x",
		"body": "Latest commit: Fix quoted parser",
		"head": "bob:feature-x",
		"base": "alice:master"
	}`, sender.sent[0].Body)

	assert.Equal(t, 13, res.PullRequest.Number)
	assert.Equal(t, "https://github.com/alice/proj/pull/13", res.PullRequest.URL)
	assert.Nil(t, res.Merge)
}

func TestServiceCreateAndMerge(t *testing.T) {
	sender := &fakeSender{responses: []response{
		{status: 201, body: createdPR},
		{status: 200, body: `{"sha":"6dcb09b","merged":true,"message":"Pull Request successfully merged"}`},
	}}
	svc := NewService(sender)

	res, err := svc.Create(context.Background(), buildRequest(t, true))
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, http.MethodPut, sender.sent[1].Method)
	assert.Equal(t, "https://api.github.com/repos/alice/proj/pulls/13/merge", sender.sent[1].URL)
	assert.JSONEq(t, `{"commit_message":"Pull request to alice/master from bob/feature-x"}`, sender.sent[1].Body)

	require.NotNil(t, res.Merge)
	assert.True(t, res.Merge.Merged)
	assert.Equal(t, "6dcb09b", res.Merge.SHA)
}

func TestServiceCreateAPIError(t *testing.T) {
	sender := &fakeSender{responses: []response{{
		status: 422,
		body:   `{"message":"Validation Failed","errors":[{"resource":"PullRequest","code":"custom","message":"A pull request already exists for bob:feature-x."}]}`,
	}}}
	svc := NewService(sender)

	res, err := svc.Create(context.Background(), buildRequest(t, true))
	assert.Nil(t, res)
	require.ErrorIs(t, err, prerrors.ErrRequest)
	assert.Equal(t, prerrors.ExitRequest, prerrors.ExitCode(err))

	var reqErr *prerrors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Validation Failed: A pull request already exists for bob:feature-x.", reqErr.Message)
	assert.Equal(t, 422, reqErr.StatusCode)
	assert.Equal(t, http.MethodPost, reqErr.Method)

	var apiErr *github.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Validation Failed", apiErr.Message)

	// no merge after a failed create, no retry
	assert.Len(t, sender.sent, 1)
}

func TestServiceCreateMergeFails(t *testing.T) {
	sender := &fakeSender{responses: []response{
		{status: 201, body: createdPR},
		{status: 405, body: `{"message":"Pull Request is not mergeable"}`},
	}}
	svc := NewService(sender)

	res, err := svc.Create(context.Background(), buildRequest(t, true))
	require.ErrorIs(t, err, prerrors.ErrRequest)
	assert.Contains(t, err.Error(), "Pull Request is not mergeable")
	assert.Contains(t, err.Error(), "#13 created")

	require.NotNil(t, res)
	assert.Equal(t, 13, res.PullRequest.Number)
	assert.Nil(t, res.Merge)
}

func TestServiceTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	sender := &fakeSender{responses: []response{{err: boom}}}

	_, err := NewService(sender).Create(context.Background(), buildRequest(t, false))
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, prerrors.ErrRequest)
	assert.Len(t, sender.sent, 1)
}

func TestServiceMergeWithoutMessage(t *testing.T) {
	sender := &fakeSender{responses: []response{{status: 200, body: `{"sha":"abc","merged":true,"message":"ok"}`}}}

	res, err := NewService(sender).Merge(context.Background(), "https://api.github.com/repos/alice/proj/pulls/", 7, "")
	require.NoError(t, err)
	assert.True(t, res.Merged)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "https://api.github.com/repos/alice/proj/pulls/7/merge", sender.sent[0].URL)
	assert.JSONEq(t, `{}`, sender.sent[0].Body)
}

func TestServiceListOpen(t *testing.T) {
	prs := []map[string]any{
		{"number": 12, "title": "one", "head": map[string]any{"label": "bob:feature-x"}, "base": map[string]any{"label": "alice:master"}},
		{"number": 11, "title": "two"},
	}
	body, err := json.Marshal(prs)
	require.NoError(t, err)
	sender := &fakeSender{responses: []response{{status: 200, body: string(body)}}}

	got, err := NewService(sender).ListOpen(context.Background(), "https://api.github.com/repos/alice/proj/pulls")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, http.MethodGet, sender.sent[0].Method)
	assert.Equal(t, "https://api.github.com/repos/alice/proj/pulls?state=open", sender.sent[0].URL)
	assert.Empty(t, sender.sent[0].Body)

	require.Len(t, got, 2)
	assert.Equal(t, 12, got[0].Number)
	assert.Equal(t, "bob:feature-x", got[0].HeadLabel)
	assert.Equal(t, "alice:master", got[0].BaseLabel)
}

func TestServiceListMilestones(t *testing.T) {
	sender := &fakeSender{responses: []response{{
		status: 200,
		body:   `[{"number":3,"title":"v1.2","state":"open","open_issues":4,"closed_issues":9}]`,
	}}}

	got, err := NewService(sender).ListMilestones(context.Background(), "https://api.github.com/repos/alice/proj/milestones")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "https://api.github.com/repos/alice/proj/milestones?state=open", sender.sent[0].URL)
	require.Len(t, got, 1)
	assert.Equal(t, "v1.2", got[0].Title)
	assert.Equal(t, 4, got[0].OpenIssues)
	assert.Nil(t, got[0].DueOn)
}

func TestServiceListNotFound(t *testing.T) {
	sender := &fakeSender{responses: []response{{status: 404, body: `{"message":"Not Found"}`}}}

	_, err := NewService(sender).ListMilestones(context.Background(), "https://api.github.com/repos/alice/gone/milestones")
	var reqErr *prerrors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Not Found", reqErr.Message)
	assert.True(t, github.IsNotFoundError(err))
}

// TestServiceCreateReplaysFixture sends a built request through the GitHub
// client against the recorded create call, which only replays when the
// encoded payload is byte-for-byte the recorded one.
func TestServiceCreateReplaysFixture(t *testing.T) {
	if os.Getenv(github.VCRModeEnv) == "record" {
		t.Skip("replay only")
	}
	rec, err := github.NewRecorderFromDir(t, filepath.Join("..", "github", "testdata", "fixtures"), "create_pull")
	if errors.Is(err, os.ErrNotExist) {
		t.Skip("create_pull fixture not recorded")
	}
	require.NoError(t, err)
	defer rec.Stop()

	client := github.NewClient("test-token", github.WithHTTPClient(rec.HTTPClient()))
	res, err := NewService(client).Create(context.Background(), buildRequest(t, false))
	require.NoError(t, err)
	assert.Equal(t, 13, res.PullRequest.Number)
	assert.Equal(t, "alice:master", res.PullRequest.BaseLabel)
}
