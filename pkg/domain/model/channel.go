package model

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Channel is a named release selection policy
type Channel struct {
	Name   string
	Policy Policy
}

// DefaultChannels returns the built-in channels
func DefaultChannels() ChannelSet {
	return ChannelSet{
		"0.2": {Name: "0.2", Policy: Policy{TagPrefix: "holochain-0.2", Window: 144 * time.Hour}},
		"0.3": {Name: "0.3", Policy: Policy{TagPrefix: "holochain-0.3", Window: 6 * time.Hour}},
	}
}

// ChannelSet is a set of channels keyed by name
type ChannelSet map[string]*Channel

// Add registers a channel, replacing any existing channel with the same name
func (s ChannelSet) Add(ch *Channel) error {
	if ch.Name == "" {
		return goerr.New("channel name must not be empty")
	}
	if err := ch.Policy.Validate(); err != nil {
		return goerr.Wrap(err, "invalid channel policy", goerr.V("channel", ch.Name))
	}
	s[ch.Name] = ch
	return nil
}

// Lookup returns the channel with the given name
func (s ChannelSet) Lookup(name string) (*Channel, error) {
	ch, ok := s[name]
	if !ok {
		return nil, goerr.New("unknown channel",
			goerr.V("channel", name),
			goerr.V("available", s.Names()))
	}
	return ch, nil
}

// Names returns channel names in sorted order
func (s ChannelSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns channels sorted by name
func (s ChannelSet) List() []*Channel {
	list := make([]*Channel, 0, len(s))
	for _, name := range s.Names() {
		list = append(list, s[name])
	}
	return list
}
