// Package notify announces issue changes to chat.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackutilsx"
)

// Notifier is told about summaries changed through this service.
type Notifier interface {
	SummaryUpdated(ctx context.Context, issueKey, summary string) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) SummaryUpdated(context.Context, string, string) error { return nil }

// poster is the part of *slack.Client used here.
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts to a single channel.
type SlackNotifier struct {
	api     poster
	channel string
	host    string
}

// NewSlackNotifier posts with the bot token to channel. host is used to link
// the issue, e.g. your-domain.atlassian.net.
func NewSlackNotifier(token, channel, host string) *SlackNotifier {
	return &SlackNotifier{api: slack.New(token), channel: channel, host: host}
}

// SummaryUpdated posts a link to the issue with the new summary. Both are
// escaped so mrkdwn control sequences such as <!channel> are shown literally.
func (n *SlackNotifier) SummaryUpdated(ctx context.Context, issueKey, summary string) error {
	key := slackutilsx.EscapeMessage(issueKey)
	text := fmt.Sprintf("✏️ Summary of <https://%s/browse/%s|%s> changed to: %s",
		n.host, key, key, slackutilsx.EscapeMessage(summary))
	_, _, err := n.api.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	return nil
}
