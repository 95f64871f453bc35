package jira

import (
	"context"
	"errors"
	"net/http"

	"jira_richtext/internal/model"
)

// VerifyCredentials asks Jira who owns the username and token pair. A nil
// error means Jira accepted the pair as that account.
func VerifyCredentials(ctx context.Context, host, username, token string, opts ...Option) error {
	if host == "" {
		return errors.Join(model.ErrInvalidReference, errors.New("host cannot be empty"))
	}
	c := newClient(model.IssueRef{Host: host, Username: username, AuthToken: token}, opts)

	status, body, err := c.do(ctx, http.MethodGet, c.myselfURL(), nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{StatusCode: status, Message: prettyBody(body)}
	}
	return nil
}
