package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/relwatch/pkg/utils/async"
)

// lockedBuffer collects log output written from the dispatched goroutine
type lockedBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (lb *lockedBuffer) Write(p []byte) (int, error) {
	lb.m.Lock()
	defer lb.m.Unlock()
	return lb.b.Write(p)
}

func (lb *lockedBuffer) String() string {
	lb.m.Lock()
	defer lb.m.Unlock()
	return lb.b.String()
}

// eventRecorder is a Sentry transport delivering events to a channel
type eventRecorder struct {
	sentry.Transport
	events chan *sentry.Event
}

func (r *eventRecorder) Configure(sentry.ClientOptions) {}
func (r *eventRecorder) SendEvent(event *sentry.Event) { r.events <- event }
func (r *eventRecorder) Flush(time.Duration) bool { return true }
func (r *eventRecorder) FlushWithContext(context.Context) bool { return true }
func (r *eventRecorder) Close() {}

// newObservedContext returns a context carrying a logger writing to the
// returned buffer and a Sentry hub delivering events to the recorder
func newObservedContext(t *testing.T) (context.Context, *lockedBuffer, *eventRecorder) {
	t.Helper()

	buf := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	recorder := &eventRecorder{events: make(chan *sentry.Event, 4)}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: recorder,
	})
	gt.NoError(t, err)

	ctx := ctxlog.With(context.Background(), logger)
	ctx = sentry.SetHubOnContext(ctx, sentry.NewHub(client, sentry.NewScope()))
	return ctx, buf, recorder
}

func waitEvent(t *testing.T, recorder *eventRecorder) *sentry.Event {
	t.Helper()
	select {
	case ev := <-recorder.events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event was captured")
		return nil
	}
}

func TestDispatch(t *testing.T) {
	t.Run("runs handler without waiting for it", func(t *testing.T) {
		release := make(chan struct{})
		done := make(chan struct{})

		async.Dispatch(context.Background(), func(ctx context.Context) error {
			<-release
			close(done)
			return nil
		})

		close(release)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("handler context survives cancellation of the caller", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)

		async.Dispatch(ctx, func(newCtx context.Context) error {
			cancel()
			result <- newCtx.Err()
			return nil
		})

		select {
		case err := <-result:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("carries logger and a clone of the Sentry hub", func(t *testing.T) {
		ctx, _, _ := newObservedContext(t)
		parentHub := sentry.GetHubFromContext(ctx)
		hubs := make(chan *sentry.Hub, 1)

		async.Dispatch(ctx, func(newCtx context.Context) error {
			gt.NotNil(t, ctxlog.From(newCtx))
			hubs <- sentry.GetHubFromContext(newCtx)
			return nil
		})

		select {
		case hub := <-hubs:
			gt.NotNil(t, hub)
			gt.True(t, hub != parentHub)
			gt.True(t, hub.Client() == parentHub.Client())
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("no hub on the detached context when caller has none", func(t *testing.T) {
		hubs := make(chan *sentry.Hub, 1)

		async.Dispatch(context.Background(), func(newCtx context.Context) error {
			hubs <- sentry.GetHubFromContext(newCtx)
			return nil
		})

		select {
		case hub := <-hubs:
			gt.True(t, hub == nil)
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("handler error is logged and captured", func(t *testing.T) {
		ctx, logs, recorder := newObservedContext(t)

		async.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("slack webhook unavailable")
		})

		ev := waitEvent(t, recorder)
		gt.Number(t, len(ev.Exception)).Greater(0)
		gt.String(t, ev.Exception[len(ev.Exception)-1].Value).Contains("slack webhook unavailable")
		gt.String(t, logs.String()).Contains("error in async handler")
		gt.String(t, logs.String()).Contains("slack webhook unavailable")
	})

	t.Run("panic is recovered, logged with stack and captured", func(t *testing.T) {
		ctx, logs, recorder := newObservedContext(t)

		async.Dispatch(ctx, func(ctx context.Context) error {
			panic("selector blew up")
		})

		ev := waitEvent(t, recorder)
		gt.Number(t, len(ev.Exception)).Greater(0)

		out := logs.String()
		gt.String(t, out).Contains("panic in async handler")
		gt.String(t, out).Contains("selector blew up")
		gt.String(t, out).Contains("dispatch_test.go")
	})
}
