package app

import (
	"context"
	"testing"

	"jira_richtext/internal/config"
	"jira_richtext/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenStore_MemoryWithoutBucket(t *testing.T) {
	store, err := newTokenStore(context.Background(), &config.Config{JiraHost: "acme.atlassian.net"})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryTokenStore{}, store)
}

func TestNewTokenStore_RejectsBadKey(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	_, err := newTokenStore(context.Background(), &config.Config{TokenBucketName: "tokens", TokenEncryptKey: []byte("short")})
	assert.Error(t, err)
}

func TestNewService(t *testing.T) {
	svc, err := NewService(context.Background(), &config.Config{
		JiraHost:      "acme.atlassian.net",
		SlackBotToken: "xoxb-1",
		SlackChannel:  "C123",
	})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
