// Package app wires configuration into a service.Service.
package app

import (
	"context"
	"fmt"

	"jira_richtext/internal/config"
	"jira_richtext/internal/logger"
	"jira_richtext/internal/notify"
	"jira_richtext/internal/service"
	"jira_richtext/internal/storage"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// NewService builds the issue service described by cfg. Tokens live in S3
// when a bucket is configured and in memory otherwise.
func NewService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	tokens, err := newTokenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SlackEnabled() {
		notifier = notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannel, cfg.JiraHost)
	}

	return service.New(cfg.JiraHost, tokens, notifier,
		service.WithDefaultCredentials(cfg.JiraUsername, cfg.JiraAPIToken)), nil
}

func newTokenStore(ctx context.Context, cfg *config.Config) (storage.TokenStore, error) {
	if cfg.TokenBucketName == "" {
		logger.GetLogger().Info("TOKEN_BUCKET_NAME not set, personal tokens are kept in memory")
		return storage.NewMemoryTokenStore(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	store, err := storage.NewS3TokenStore(s3.NewFromConfig(awsCfg), cfg.TokenBucketName, cfg.TokenEncryptKey)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().Info("using s3 token store", zap.String("bucket", cfg.TokenBucketName))
	return store, nil
}
