package config

import (
	"github.com/m-mizutani/relwatch/pkg/domain/interfaces"
	slackinfra "github.com/m-mizutani/relwatch/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL to notify selected releases",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("RELWATCH_SLACK_WEBHOOK_URL"),
		},
	}
}

// NewNotifier returns a Slack notifier, or nil if no webhook URL is set
func (c *Slack) NewNotifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slackinfra.NewNotifier(c.WebhookURL)
}
