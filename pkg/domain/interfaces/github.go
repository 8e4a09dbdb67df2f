package interfaces

import (
	"context"

	"github.com/m-mizutani/relwatch/pkg/domain/model"
)

// ReleaseSource lists published releases of a repository
type ReleaseSource interface {
	// ListReleases fetches the release list of owner/repo in a single request
	ListReleases(ctx context.Context, owner, repo string) ([]*model.Release, error)
}

// Notifier announces a selected release
type Notifier interface {
	Notify(ctx context.Context, sel *model.Selection) error
}
