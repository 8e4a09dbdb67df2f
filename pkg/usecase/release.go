package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/relwatch/pkg/domain/model"
)

type releaseUseCase struct {
	source   interfaces.ReleaseSource
	notifier interfaces.Notifier
	owner    string
	repo     string
}

// ReleaseOption is a functional option for the release use case
type ReleaseOption func(*releaseUseCase)

// WithNotifier sets the notifier used by Notify
func WithNotifier(n interfaces.Notifier) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.notifier = n
	}
}

// NewRelease creates a new instance of ReleaseUseCase for owner/repo
func NewRelease(source interfaces.ReleaseSource, owner, repo string, opts ...ReleaseOption) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		source: source,
		owner:  owner,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// LatestTag fetches the release list once and selects the newest release
// of the channel. A missing match is not an error.
func (uc *releaseUseCase) LatestTag(ctx context.Context, channel *model.Channel, now time.Time) (*model.Selection, error) {
	logger := ctxlog.From(ctx)

	releases, err := uc.source.ListReleases(ctx, uc.owner, uc.repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch releases",
			goerr.V("owner", uc.owner),
			goerr.V("repo", uc.repo),
			goerr.V("channel", channel.Name),
		)
	}

	logger.Debug("Fetched releases",
		"owner", uc.owner,
		"repo", uc.repo,
		"count", len(releases),
	)

	sel := &model.Selection{Channel: channel.Name}
	sel.Tag, sel.Found = channel.Policy.Select(releases, now)

	logger.Info("Selected release",
		"channel", channel.Name,
		"tag_prefix", channel.Policy.TagPrefix,
		"window", channel.Policy.Window.String(),
		"found", sel.Found,
		"tag", sel.Tag,
	)

	return sel, nil
}

// Notify announces a found selection. It is a no-op without a notifier or
// when nothing was selected.
func (uc *releaseUseCase) Notify(ctx context.Context, sel *model.Selection) error {
	if uc.notifier == nil || sel == nil || !sel.Found {
		return nil
	}

	if err := uc.notifier.Notify(ctx, sel); err != nil {
		return goerr.Wrap(err, "failed to notify selection", goerr.V("channel", sel.Channel))
	}

	ctxlog.From(ctx).Info("Notified selection", "channel", sel.Channel, "tag", sel.Tag)
	return nil
}
