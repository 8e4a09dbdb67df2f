package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relwatch/pkg/cli/config"
)

func writeChannelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "channels.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestChannel_Load_Defaults(t *testing.T) {
	cfg := &config.Channel{Name: config.DefaultChannel}
	channels, err := cfg.Load()
	gt.NoError(t, err)
	gt.A(t, channels.Names()).Length(2)

	ch, err := cfg.Resolve()
	gt.NoError(t, err)
	gt.Equal(t, ch.Policy.TagPrefix, "holochain-0.3")
	gt.Equal(t, ch.Policy.Window, 6*time.Hour)
}

func TestChannel_Load_File(t *testing.T) {
	path := writeChannelFile(t, `
[[channel]]
name = "0.4"
tag_prefix = "holochain-0.4"
window_hours = 24.0

[[channel]]
name = "0.3"
tag_prefix = "holochain-0.3"
window_hours = 1.5
`)

	cfg := &config.Channel{Name: "0.4", File: path}
	channels, err := cfg.Load()
	gt.NoError(t, err)
	gt.A(t, channels.Names()).Length(3)

	ch, err := cfg.Resolve()
	gt.NoError(t, err)
	gt.Equal(t, ch.Policy.TagPrefix, "holochain-0.4")
	gt.Equal(t, ch.Policy.Window, 24*time.Hour)

	overridden, err := channels.Lookup("0.3")
	gt.NoError(t, err)
	gt.Equal(t, overridden.Policy.Window, 90*time.Minute)
}

func TestChannel_Load_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := &config.Channel{Name: "0.3", File: filepath.Join(t.TempDir(), "none.toml")}
		_, err := cfg.Load()
		gt.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		cfg := &config.Channel{Name: "0.3", File: writeChannelFile(t, "[[channel]\nname=")}
		_, err := cfg.Load()
		gt.Error(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		cfg := &config.Channel{Name: "0.3", File: writeChannelFile(t, `
[[channel]]
name = "x"
prefix = "holochain-0.4"
`)}
		_, err := cfg.Load()
		gt.Error(t, err)
	})

	t.Run("empty prefix", func(t *testing.T) {
		cfg := &config.Channel{Name: "0.3", File: writeChannelFile(t, `
[[channel]]
name = "x"
window_hours = 2.0
`)}
		_, err := cfg.Load()
		gt.Error(t, err)
	})

	t.Run("unknown channel", func(t *testing.T) {
		cfg := &config.Channel{Name: "9.9"}
		_, err := cfg.Resolve()
		gt.Error(t, err)
	})
}
