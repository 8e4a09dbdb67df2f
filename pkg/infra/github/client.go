package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/relwatch/pkg/domain/model"
)

// DefaultUserAgent is sent with every request. The GitHub API rejects
// requests without a User-Agent header.
const DefaultUserAgent = "scaffolding-holochain-releases"

type config struct {
	baseURL        string
	userAgent      string
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	timeout        time.Duration
	transport      http.RoundTripper
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL overrides the API base URL (GitHub Enterprise, tests)
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header. Empty keeps the default.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithToken authenticates requests with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithApp authenticates requests as a GitHub App installation
func WithApp(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithTimeout sets a request-wide timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithTransport replaces the base HTTP transport
func WithTransport(tr http.RoundTripper) Option {
	return func(c *config) {
		c.transport = tr
	}
}

type client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub release source
func NewClient(opts ...Option) (interfaces.ReleaseSource, error) {
	cfg := &config{
		userAgent: DefaultUserAgent,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.token != "" && cfg.appID != 0 {
		return nil, goerr.New("GitHub token and GitHub App credentials are mutually exclusive")
	}

	transport := cfg.transport
	if cfg.appID != 0 {
		itr, err := ghinstallation.New(transport, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("app_id", cfg.appID),
				goerr.V("installation_id", cfg.installationID),
			)
		}
		if cfg.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
		}
		transport = itr
	}

	githubClient := github.NewClient(&http.Client{
		Transport: transport,
		Timeout:   cfg.timeout,
	})
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}
	githubClient.UserAgent = cfg.userAgent

	if cfg.baseURL != "" {
		u, err := url.Parse(cfg.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", cfg.baseURL))
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		githubClient.BaseURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// ListReleases fetches the first page of releases of owner/repo, newest first.
// A body that is not an array of release objects with a tag_name is a
// parse failure.
func (c *client) ListReleases(ctx context.Context, owner, repo string) ([]*model.Release, error) {
	releases, _, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list releases",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
		)
	}

	// JSON null decodes to a nil slice while [] decodes to an empty one
	if releases == nil {
		return nil, goerr.New("malformed release list: not an array",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
		)
	}

	result := make([]*model.Release, 0, len(releases))
	for i, r := range releases {
		if r == nil || r.TagName == nil {
			return nil, goerr.New("malformed release entry: missing tag_name",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
				goerr.V("index", i),
			)
		}
		result = append(result, &model.Release{
			Tag:         r.GetTagName(),
			PublishedAt: r.GetPublishedAt().Time,
		})
	}

	return result, nil
}
