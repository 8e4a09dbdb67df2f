package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/relwatch/pkg/domain/model"
	"github.com/slack-go/slack"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a notifier posting to a Slack incoming webhook
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{
		webhookURL: webhookURL,
	}
}

// Notify posts the selected tag of a channel
func (n *notifier) Notify(ctx context.Context, sel *model.Selection) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("New release on channel %s: `%s`", sel.Channel, sel.Tag),
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook",
			goerr.V("channel", sel.Channel),
			goerr.V("tag", sel.Tag),
		)
	}

	return nil
}
