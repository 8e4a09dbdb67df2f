package interfaces

import (
	"context"
	"time"

	"github.com/m-mizutani/relwatch/pkg/domain/model"
)

// ReleaseUseCase defines operations for release selection
type ReleaseUseCase interface {
	// LatestTag selects the newest qualifying release of a channel at now
	LatestTag(ctx context.Context, channel *model.Channel, now time.Time) (*model.Selection, error)

	// Notify announces a selection through the configured notifier, if any
	Notify(ctx context.Context, sel *model.Selection) error
}
