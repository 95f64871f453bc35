// Package service runs issue operations on behalf of a caller, resolving the
// caller's Jira credentials and announcing summary changes.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"jira_richtext/internal/jira"
	"jira_richtext/internal/logger"
	"jira_richtext/internal/model"
	"jira_richtext/internal/notify"
	"jira_richtext/internal/storage"

	"go.uber.org/zap"
)

// ErrNoCredentials is returned when neither a stored token nor default credentials apply.
var ErrNoCredentials = errors.New("no jira credentials available")

// ErrUnauthenticated is returned when a caller cannot prove they own the account they name.
var ErrUnauthenticated = errors.New("caller could not be authenticated")

// ErrTokenTooShort is returned by SetToken for tokens under minTokenLength.
var ErrTokenTooShort = errors.New("token must be at least 8 characters long")

const minTokenLength = 8

// Caller is the account a request acts as. The zero Caller selects the default account.
type Caller struct {
	Username string
	Token    string // personal token presented with the request
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultCredentials is used for callers without a stored personal token.
func WithDefaultCredentials(username, token string) Option {
	return func(s *Service) {
		s.defaultUser = username
		s.defaultToken = token
	}
}

// WithJiraOptions passes options to every jira request.
func WithJiraOptions(opts ...jira.Option) Option {
	return func(s *Service) {
		s.jiraOpts = append(s.jiraOpts, opts...)
	}
}

// Service is safe for concurrent use; every call works on its own jira.Issue or jira.SummaryEditor.
type Service struct {
	host         string
	defaultUser  string
	defaultToken string
	tokens       storage.TokenStore
	notifier     notify.Notifier
	jiraOpts     []jira.Option
}

// New returns a Service for the Jira site at host.
func New(host string, tokens storage.TokenStore, notifier notify.Notifier, opts ...Option) *Service {
	if tokens == nil {
		tokens = storage.NewMemoryTokenStore()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	s := &Service{host: host, tokens: tokens, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ref resolves the credentials of caller. A named caller must present the
// token stored for them, or the default token when naming the default account.
func (s *Service) ref(ctx context.Context, issueKey string, caller Caller) (model.IssueRef, error) {
	ref := model.IssueRef{Host: s.host, IssueIDOrKey: issueKey}
	if caller.Username == "" {
		if s.defaultUser == "" || s.defaultToken == "" {
			return ref, ErrNoCredentials
		}
		ref.Username, ref.AuthToken = s.defaultUser, s.defaultToken
		return ref, nil
	}
	if caller.Token == "" {
		return ref, fmt.Errorf("%w: no token presented for %s", ErrUnauthenticated, caller.Username)
	}

	token, err := s.tokens.GetToken(ctx, caller.Username)
	switch {
	case errors.Is(err, storage.ErrTokenNotFound):
		if caller.Username == s.defaultUser && tokensMatch(s.defaultToken, caller.Token) {
			ref.Username, ref.AuthToken = s.defaultUser, s.defaultToken
			return ref, nil
		}
		return ref, fmt.Errorf("%w for %s", ErrNoCredentials, caller.Username)
	case err != nil:
		return ref, fmt.Errorf("failed to get token for %s: %w", caller.Username, err)
	case !tokensMatch(token, caller.Token):
		return ref, fmt.Errorf("%w as %s", ErrUnauthenticated, caller.Username)
	}
	ref.Username, ref.AuthToken = caller.Username, token
	return ref, nil
}

func tokensMatch(want, got string) bool {
	return want != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// Fetch fetches an issue as caller.
func (s *Service) Fetch(ctx context.Context, issueKey string, caller Caller) (*jira.Issue, error) {
	ref, err := s.ref(ctx, issueKey, caller)
	if err != nil {
		return nil, err
	}
	return jira.NewIssue(ctx, ref, s.jiraOpts...)
}

// RichText returns the string fields of an issue keyed by path.
func (s *Service) RichText(ctx context.Context, issueKey string, caller Caller) (map[string]string, error) {
	issue, err := s.Fetch(ctx, issueKey, caller)
	if err != nil {
		return nil, err
	}
	return issue.RichText(), nil
}

// UpdateSummary sets the summary and returns Jira's status code. A non-2xx
// code is returned without error, like jira.SummaryEditor.
func (s *Service) UpdateSummary(ctx context.Context, issueKey string, caller Caller, summary string) (int, error) {
	ref, err := s.ref(ctx, issueKey, caller)
	if err != nil {
		return 0, err
	}
	editor, err := jira.NewSummaryEditor(ref, s.jiraOpts...)
	if err != nil {
		return 0, err
	}
	status, err := editor.UpdateIssueSummary(ctx, summary)
	if err != nil {
		return status, err
	}

	log := logger.GetLogger().With(zap.String("issue", issueKey), zap.Int("status", status))
	if status < 200 || status > 299 {
		log.Warn("jira rejected summary update")
		return status, nil
	}
	log.Info("issue summary updated")
	if err := s.notifier.SummaryUpdated(ctx, issueKey, summary); err != nil {
		log.Error("failed to notify summary update", zap.Error(err))
	}
	return status, nil
}

// SetToken stores a personal token for username once Jira accepts it for
// that account. Replacing a stored token requires currentToken to match it.
func (s *Service) SetToken(ctx context.Context, username, token, currentToken string) error {
	if username == "" {
		return errors.New("username cannot be empty")
	}
	if len(token) < minTokenLength {
		return ErrTokenTooShort
	}

	existing, err := s.tokens.GetToken(ctx, username)
	switch {
	case err == nil:
		if !tokensMatch(existing, currentToken) {
			return fmt.Errorf("%w: the current token is required to replace the token of %s", ErrUnauthenticated, username)
		}
	case !errors.Is(err, storage.ErrTokenNotFound):
		return fmt.Errorf("failed to get token for %s: %w", username, err)
	}

	if err := jira.VerifyCredentials(ctx, s.host, username, token, s.jiraOpts...); err != nil {
		var apiErr *jira.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: jira rejected the token of %s with status %d", ErrUnauthenticated, username, apiErr.StatusCode)
		}
		return fmt.Errorf("failed to verify token for %s: %w", username, err)
	}
	return s.tokens.SetToken(ctx, username, token)
}
