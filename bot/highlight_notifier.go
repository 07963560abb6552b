// Package bot pushes editorial events to Slack so the admin channel sees
// every highlight that enters the feed.
package bot

import (
	"fmt"
	"os"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/slack-go/slack"
)

// HighlightNotifier posts new admin highlights to an incoming webhook.
// Notification is best effort: failures are logged, never surfaced to the
// request that created the highlight.
type HighlightNotifier struct {
	webhookUrl string
}

// NewHighlightNotifier reads SLACK_HIGHLIGHT_WEBHOOK_URL. When the variable
// is unset it returns nil and notification becomes a no-op.
func NewHighlightNotifier() *HighlightNotifier {
	url := os.Getenv("SLACK_HIGHLIGHT_WEBHOOK_URL")
	if url == "" {
		Logger.Log.Info("SLACK_HIGHLIGHT_WEBHOOK_URL not set, highlight notification disabled")
		return nil
	}
	return &HighlightNotifier{webhookUrl: url}
}

func buildHighlightHeaderBlock(highlight *model.AdminHighlight) slack.Block {
	headerText := slack.NewTextBlockObject("plain_text", highlight.Title, false, false)
	return slack.NewHeaderBlock(headerText)
}

func buildHighlightBodyBlock(highlight *model.AdminHighlight) slack.Block {
	body := highlight.Description
	if len(body) > 600 {
		body = body[:600] + "..."
	}
	return slack.NewSectionBlock(
		slack.NewTextBlockObject("mrkdwn", body, false, false), nil, nil)
}

func buildHighlightContextBlock(highlight *model.AdminHighlight) slack.Block {
	detail := fmt.Sprintf("type: `%s` \t visibility: `%s`", highlight.Type, highlight.Visibility)
	if highlight.ExpiresAt != "" {
		detail += fmt.Sprintf(" \t expires: %s", highlight.ExpiresAt)
	}
	return slack.NewContextBlock("",
		slack.NewTextBlockObject("mrkdwn", detail, false, false))
}

// NotifyHighlight pushes a highlight to the configured channel. Safe to call
// on a nil notifier.
func (n *HighlightNotifier) NotifyHighlight(highlight *model.AdminHighlight) {
	if n == nil {
		return
	}

	blocks := []slack.Block{
		buildHighlightHeaderBlock(highlight),
		buildHighlightBodyBlock(highlight),
		buildHighlightContextBlock(highlight),
	}
	msg := slack.NewBlockMessage(blocks...)

	webhookMsg := &slack.WebhookMessage{
		Text:   fmt.Sprintf("New highlight: %s", highlight.Title),
		Blocks: &msg.Blocks,
	}
	if err := slack.PostWebhook(n.webhookUrl, webhookMsg); err != nil {
		Logger.Log.Warn("fail to post highlight to slack: ", err)
	}
}
