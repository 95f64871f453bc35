package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Jira configuration
	JiraHost     string // Required: bare Jira domain, e.g. your-domain.atlassian.net
	JiraUsername string // Default account used when a caller has no stored token
	JiraAPIToken string // API token of JiraUsername

	// S3 configuration for personal token storage
	TokenBucketName string // S3 bucket name for storing tokens, empty keeps tokens in memory
	TokenEncryptKey []byte // 32-byte AES-256 key, required with TokenBucketName

	// Slack configuration for summary change notifications
	SlackBotToken string
	SlackChannel  string

	// Log level
	LogLevel string // Required: Log level
}

// Load creates a new Config instance from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		JiraUsername:    os.Getenv("JIRA_USERNAME"),
		JiraAPIToken:    os.Getenv("JIRA_API_TOKEN"),
		TokenBucketName: os.Getenv("TOKEN_BUCKET_NAME"),
		SlackBotToken:   os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:    os.Getenv("SLACK_CHANNEL"),
	}

	requiredVars := map[string]*string{
		"JIRA_HOST": &cfg.JiraHost,
		"LOG_LEVEL": &cfg.LogLevel,
	}

	var missingVars []string
	for env, ptr := range requiredVars {
		*ptr = os.Getenv(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}
	if cfg.TokenBucketName != "" && os.Getenv("TOKEN_ENCRYPT_KEY") == "" {
		missingVars = append(missingVars, "TOKEN_ENCRYPT_KEY")
	}

	if len(missingVars) > 0 {
		sort.Strings(missingVars)
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	if raw := os.Getenv("TOKEN_ENCRYPT_KEY"); raw != "" {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_ENCRYPT_KEY is not valid base64: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("TOKEN_ENCRYPT_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.TokenEncryptKey = key
	}

	return cfg, nil
}

// SlackEnabled reports whether summary changes should be posted to Slack
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}
