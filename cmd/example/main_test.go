package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jira_richtext/internal/jira"
	"jira_richtext/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_run(t *testing.T) {
	var puts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			puts++
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"key":"PROJ-1","fields":{"summary":"Fix bug","labels":["a","b"]}}`))
	}))
	defer server.Close()

	ref := model.IssueRef{Host: "acme.atlassian.net", IssueIDOrKey: "PROJ-1", Username: "u", AuthToken: "t"}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, ref, "", jira.WithBaseURL(server.URL)))
	assert.Equal(t, ".fields.labels.0 : a\n.fields.labels.1 : b\n.fields.summary : Fix bug\n.key : PROJ-1\n", out.String())
	assert.Zero(t, puts)

	out.Reset()
	require.NoError(t, run(context.Background(), &out, ref, "New Title", jira.WithBaseURL(server.URL)))
	assert.Contains(t, out.String(), "204\n")
	assert.Equal(t, 1, puts)
}

func Test_run_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorMessages":["not authorized"]}`))
	}))
	defer server.Close()

	ref := model.IssueRef{Host: "acme.atlassian.net", IssueIDOrKey: "PROJ-1"}
	var out bytes.Buffer
	err := run(context.Background(), &out, ref, "x", jira.WithBaseURL(server.URL))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
	assert.Empty(t, out.String())
}
