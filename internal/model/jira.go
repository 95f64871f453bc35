package model

import (
	"errors"
	"fmt"
	"strings"
)

// IssueRef identifies a Jira issue and the credentials used to reach it
type IssueRef struct {
	Host         string // Bare domain, e.g. your-domain.atlassian.net
	IssueIDOrKey string // Numeric id or key such as PROJ-123
	Username     string // Jira account email
	AuthToken    string // API token generated for the account
}

// ErrInvalidReference is returned when an IssueRef cannot address an issue
var ErrInvalidReference = errors.New("invalid issue reference")

// Validate reports whether the reference can be turned into a request URL
func (r IssueRef) Validate() error {
	switch {
	case r.Host == "":
		return errors.Join(ErrInvalidReference, errors.New("host cannot be empty"))
	case strings.Contains(r.Host, "/"):
		return errors.Join(ErrInvalidReference, errors.New("host must be a bare domain without scheme or slashes"))
	case strings.TrimSpace(r.IssueIDOrKey) == "":
		return errors.Join(ErrInvalidReference, errors.New("issue id or key cannot be empty"))
	case strings.ContainsAny(r.IssueIDOrKey, "/\\?#%") || strings.Contains(r.IssueIDOrKey, ".."):
		return errors.Join(ErrInvalidReference, fmt.Errorf("issue id or key %q must be a single path segment", r.IssueIDOrKey))
	}
	return nil
}

// SummaryUpdate is the edit-issue payload that sets a new summary
type SummaryUpdate struct {
	Update SummaryOperations `json:"update"`
}

// SummaryOperations holds the operations applied to the summary field
type SummaryOperations struct {
	Summary []SetOperation `json:"summary"`
}

// SetOperation replaces a field value
type SetOperation struct {
	Set string `json:"set"`
}

// NewSummaryUpdate builds {"update":{"summary":[{"set":text}]}}
func NewSummaryUpdate(text string) SummaryUpdate {
	return SummaryUpdate{
		Update: SummaryOperations{
			Summary: []SetOperation{{Set: text}},
		},
	}
}
