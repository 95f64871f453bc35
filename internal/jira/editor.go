package jira

import (
	"context"
	"net/http"

	"jira_richtext/internal/logger"
	"jira_richtext/internal/model"

	"go.uber.org/zap"
)

// SummaryEditor updates the summary of a single issue. Creating one does not
// contact Jira.
type SummaryEditor struct {
	client   *client
	response map[string]any
}

// NewSummaryEditor returns an editor for the issue addressed by ref.
func NewSummaryEditor(ref model.IssueRef, opts ...Option) (*SummaryEditor, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return &SummaryEditor{client: newClient(ref, opts)}, nil
}

// UpdateIssueSummary sets the summary to text and returns the status code
// returned by Jira. Non-2xx codes are not errors; callers inspect the code.
// An error is returned only when the request could not be completed.
func (e *SummaryEditor) UpdateIssueSummary(ctx context.Context, text string) (int, error) {
	status, body, err := e.client.do(ctx, http.MethodPut, e.client.issueURL(), model.NewSummaryUpdate(text))
	if err != nil {
		return status, err
	}

	obj, err := decodeObject(body)
	if err != nil {
		logger.GetLogger().Warn("jira returned a non-json body for summary update",
			zap.String("issue", e.client.ref.IssueIDOrKey),
			zap.Int("status", status),
			zap.Error(err))
		obj = map[string]any{}
	}
	e.response = obj
	return status, nil
}

// Response returns the body of the last update.
func (e *SummaryEditor) Response() (map[string]any, error) {
	if e.response == nil {
		return nil, ErrNoResponse
	}
	return e.response, nil
}
