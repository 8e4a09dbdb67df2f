package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/cli/config"
	"github.com/m-mizutani/relwatch/pkg/usecase"
	"github.com/m-mizutani/relwatch/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

func cmdCheck() *cli.Command {
	var (
		githubCfg   config.GitHub
		channelCfg  config.Channel
		slackCfg    config.Slack
		failOnError bool
	)

	flags := append(githubCfg.Flags(), channelCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "fail-on-error",
		Usage:       "Exit with non-zero status when the check fails",
		Destination: &failOnError,
		Sources:     cli.EnvVars("RELWATCH_FAIL_ON_ERROR"),
	})

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Print the latest release tag of a channel, if any",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			err := check(ctx, c.Root().Writer, &githubCfg, &channelCfg, &slackCfg)
			if err != nil {
				errutil.Handle(ctx, "failed to check latest release", err)
				if failOnError {
					return err
				}
			}
			return nil
		},
	}
}

// check writes the selected tag as a single line to w. Nothing is written
// when no release qualifies or when an error occurs.
func check(ctx context.Context, w io.Writer, githubCfg *config.GitHub, channelCfg *config.Channel, slackCfg *config.Slack) error {
	channel, err := channelCfg.Resolve()
	if err != nil {
		return err
	}

	source, err := githubCfg.NewClient()
	if err != nil {
		return err
	}

	var opts []usecase.ReleaseOption
	if n := slackCfg.NewNotifier(); n != nil {
		opts = append(opts, usecase.WithNotifier(n))
	}
	uc := usecase.NewRelease(source, githubCfg.Owner, githubCfg.Repo, opts...)

	sel, err := uc.LatestTag(ctx, channel, time.Now())
	if err != nil {
		return err
	}
	if !sel.Found {
		return nil
	}

	if _, err := fmt.Fprintln(w, sel.Tag); err != nil {
		return goerr.Wrap(err, "failed to write tag")
	}

	if err := uc.Notify(ctx, sel); err != nil {
		errutil.Handle(ctx, "failed to notify selected release", err)
	}

	return nil
}
