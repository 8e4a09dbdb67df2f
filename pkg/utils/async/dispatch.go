package async

import (
	"context"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relwatch/pkg/utils/errutil"
)

// Dispatch runs handler in a new goroutine detached from the cancellation of
// ctx. The logger and Sentry hub of ctx are carried over. Errors and panics
// are passed to errutil.Handle.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := goerr.New("panic in async handler",
					goerr.V("recover", r),
					goerr.V("stack", string(debug.Stack())),
				)
				errutil.Handle(newCtx, "panic in async handler", err)
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "error in async handler", err)
		}
	}()
}

func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub.Clone())
	}
	return newCtx
}
