package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdChannels() *cli.Command {
	var channelCfg config.Channel

	return &cli.Command{
		Name:  "channels",
		Usage: "List configured release channels",
		Flags: channelCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			channels, err := channelCfg.Load()
			if err != nil {
				return err
			}

			w := c.Root().Writer
			for _, ch := range channels.List() {
				if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", ch.Name, ch.Policy.TagPrefix, ch.Policy.Window); err != nil {
					return goerr.Wrap(err, "failed to write channel list")
				}
			}
			return nil
		},
	}
}
