package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"jira_richtext/internal/logger"
	"jira_richtext/internal/model"
	"jira_richtext/internal/richtext"

	"go.uber.org/zap"
)

const (
	protocol       = "https://"
	apiEndpoint    = "/rest/api/3/issue/"
	myselfEndpoint = "/rest/api/3/myself"
)

// Option customizes how requests reach Jira.
type Option func(*client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBaseURL replaces "https://<host>" with baseURL, e.g. an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(cl *client) {
		cl.baseURL = baseURL
	}
}

type client struct {
	ref     model.IssueRef
	http    *http.Client
	baseURL string
}

func newClient(ref model.IssueRef, opts []Option) *client {
	c := &client{
		ref:     ref,
		http:    http.DefaultClient,
		baseURL: protocol + ref.Host,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) issueURL() string {
	return c.baseURL + apiEndpoint + url.PathEscape(c.ref.IssueIDOrKey)
}

func (c *client) myselfURL() string {
	return c.baseURL + myselfEndpoint
}

// do sends a request to target and returns the status code with the raw body.
func (c *client) do(ctx context.Context, method, target string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal jira payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create jira request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.ref.Username, c.ref.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call jira: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read jira response: %w", err)
	}
	logger.GetLogger().Debug("jira request completed",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)))
	return resp.StatusCode, respBody, nil
}

// decodeObject parses a JSON object body. An empty body yields an empty object.
func decodeObject(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	v, err := richtext.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse jira response: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to parse jira response: expected a json object, got %T", v)
	}
	return obj, nil
}

// prettyBody indents a JSON body, falling back to the raw text.
func prettyBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
