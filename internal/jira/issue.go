package jira

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"jira_richtext/internal/model"
	"jira_richtext/internal/richtext"
)

// Issue is a fetched Jira issue with lazily extracted rich text fields.
// Every string leaf of the response counts as rich text.
type Issue struct {
	response map[string]any

	richTextOnce sync.Once
	richText     map[string]string
}

// NewIssue fetches the issue addressed by ref. Any status other than 200
// fails with an *APIError carrying the pretty-printed response body.
func NewIssue(ctx context.Context, ref model.IssueRef, opts ...Option) (*Issue, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	c := newClient(ref, opts)

	status, body, err := c.do(ctx, http.MethodGet, c.issueURL(), nil)
	if err != nil {
		return nil, err
	}
	// As per API documentation anything other than 200 is unsuccessful.
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Message: prettyBody(body)}
	}

	obj, err := decodeObject(body)
	if err != nil {
		return nil, fmt.Errorf("issue %s: %w", ref.IssueIDOrKey, err)
	}
	return &Issue{response: obj}, nil
}

// Response returns the JSON body of the issue.
func (i *Issue) Response() (map[string]any, error) {
	if i == nil || i.response == nil {
		return nil, ErrNoResponse
	}
	return i.response, nil
}

// RichText maps the path of every string field to its value. The map is
// built on the first call and the same map is returned afterwards.
func (i *Issue) RichText() map[string]string {
	if i == nil {
		return map[string]string{}
	}
	i.richTextOnce.Do(func() {
		if i.response == nil {
			i.richText = map[string]string{}
			return
		}
		i.richText = richtext.Extract(i.response)
	})
	return i.richText
}

// Key returns the issue key, or "" when the response has none.
func (i *Issue) Key() string {
	if i == nil {
		return ""
	}
	key, _ := i.response["key"].(string)
	return key
}

// Summary returns fields.summary, or "" when absent.
func (i *Issue) Summary() string {
	if i == nil {
		return ""
	}
	v, ok := richtext.Lookup(i.response, "fields.summary")
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
