package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// DefaultChannel is the channel checked when --channel is not given
const DefaultChannel = "0.3"

// Channel holds release channel configuration
type Channel struct {
	Name string
	File string
}

// Flags returns CLI flags for channel configuration
func (c *Channel) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "channel",
			Aliases:     []string{"C"},
			Usage:       "Release channel to check (0.2, 0.3 or a channel from --channel-file)",
			Value:       DefaultChannel,
			Destination: &c.Name,
			Sources:     cli.EnvVars("RELWATCH_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "channel-file",
			Usage:       "TOML file declaring additional channels",
			Destination: &c.File,
			Sources:     cli.EnvVars("RELWATCH_CHANNEL_FILE"),
		},
	}
}

type channelFile struct {
	Channels []channelEntry `toml:"channel"`
}

type channelEntry struct {
	Name        string  `toml:"name"`
	TagPrefix   string  `toml:"tag_prefix"`
	WindowHours float64 `toml:"window_hours"`
}

// Load returns the built-in channels merged with channels of the channel
// file, if any. File channels replace built-ins of the same name.
func (c *Channel) Load() (model.ChannelSet, error) {
	channels := model.DefaultChannels()
	if c.File == "" {
		return channels, nil
	}

	fd, err := os.Open(c.File)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open channel file", goerr.V("path", c.File))
	}
	defer fd.Close()

	var file channelFile
	if err := toml.NewDecoder(fd).DisallowUnknownFields().Decode(&file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse channel file", goerr.V("path", c.File))
	}

	for _, entry := range file.Channels {
		policy, err := model.NewPolicy(entry.TagPrefix, entry.WindowHours)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid channel in channel file",
				goerr.V("path", c.File),
				goerr.V("channel", entry.Name),
			)
		}
		if err := channels.Add(&model.Channel{Name: entry.Name, Policy: policy}); err != nil {
			return nil, goerr.Wrap(err, "failed to add channel", goerr.V("path", c.File))
		}
	}

	return channels, nil
}

// Resolve loads the channels and returns the selected one
func (c *Channel) Resolve() (*model.Channel, error) {
	channels, err := c.Load()
	if err != nil {
		return nil, err
	}
	return channels.Lookup(c.Name)
}
