package config

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, env := range []string{
		"JIRA_HOST", "JIRA_USERNAME", "JIRA_API_TOKEN", "TOKEN_BUCKET_NAME",
		"TOKEN_ENCRYPT_KEY", "SLACK_BOT_TOKEN", "SLACK_CHANNEL", "LOG_LEVEL",
	} {
		t.Setenv(env, "")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, "missing required environment variables: JIRA_HOST, LOG_LEVEL", err.Error())
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)
	t.Setenv("JIRA_HOST", "acme.atlassian.net")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JIRA_USERNAME", "user@example.com")
	t.Setenv("JIRA_API_TOKEN", "api-token-123")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-1")
	t.Setenv("SLACK_CHANNEL", "C123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "acme.atlassian.net", cfg.JiraHost)
	assert.Equal(t, "user@example.com", cfg.JiraUsername)
	assert.Equal(t, "api-token-123", cfg.JiraAPIToken)
	assert.True(t, cfg.SlackEnabled())
	assert.Nil(t, cfg.TokenEncryptKey)
}

func TestLoad_BucketNeedsKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("JIRA_HOST", "acme.atlassian.net")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("TOKEN_BUCKET_NAME", "tokens")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_ENCRYPT_KEY")
}

func TestLoad_EncryptKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("JIRA_HOST", "acme.atlassian.net")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("TOKEN_BUCKET_NAME", "tokens")

	t.Setenv("TOKEN_ENCRYPT_KEY", base64.StdEncoding.EncodeToString([]byte("short")))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must decode to 32 bytes")

	t.Setenv("TOKEN_ENCRYPT_KEY", "%%%")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid base64")

	key := []byte(strings.Repeat("k", 32))
	t.Setenv("TOKEN_ENCRYPT_KEY", base64.StdEncoding.EncodeToString(key))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, key, cfg.TokenEncryptKey)
}
