package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/relwatch/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration
type GitHub struct {
	Owner          string
	Repo           string
	BaseURL        string
	UserAgent      string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	Timeout        time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Owner of the repository to watch",
			Value:       "holochain",
			Destination: &c.Owner,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Repository to watch",
			Value:       "holochain",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_REPO"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "github-user-agent",
			Usage:       "User-Agent header sent to the GitHub API",
			Value:       githubinfra.DefaultUserAgent,
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_USER_AGENT"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for rate-limit relief",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.DurationFlag{
			Name:        "github-timeout",
			Usage:       "Request timeout for the GitHub API, 0 for none",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("RELWATCH_GITHUB_TIMEOUT"),
		},
	}
}

func (c *GitHub) useApp() bool {
	return c.AppID != 0 || c.InstallationID != 0 || c.PrivateKey != ""
}

// Validate checks that authentication options are consistent
func (c *GitHub) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return goerr.New("GitHub owner and repo are required")
	}

	if c.useApp() {
		if c.AppID == 0 || c.InstallationID == 0 || c.PrivateKey == "" {
			return goerr.New("GitHub App ID, installation ID and private key must be set together")
		}
		if c.Token != "" {
			return goerr.New("GitHub token and GitHub App cannot be used together")
		}
	}

	return nil
}

// NewClient builds the release source from the configuration
func (c *GitHub) NewClient() (interfaces.ReleaseSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []githubinfra.Option{
		githubinfra.WithUserAgent(c.UserAgent),
		githubinfra.WithTimeout(c.Timeout),
	}
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}
	if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}
	if c.useApp() {
		opts = append(opts, githubinfra.WithApp(c.AppID, c.InstallationID, []byte(c.PrivateKey)))
	}

	client, err := githubinfra.NewClient(opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client")
	}
	return client, nil
}
