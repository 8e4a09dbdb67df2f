package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/relwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/relwatch/pkg/domain/model"
	"github.com/m-mizutani/relwatch/pkg/utils/async"
	"github.com/m-mizutani/relwatch/pkg/utils/errutil"
)

// ReleaseHandler serves release selections of the configured channels
type ReleaseHandler struct {
	releaseUC interfaces.ReleaseUseCase
	channels  model.ChannelSet
	clock     func() time.Time
}

// NewReleaseHandler creates a new release handler
func NewReleaseHandler(releaseUC interfaces.ReleaseUseCase, channels model.ChannelSet, clock func() time.Time) *ReleaseHandler {
	return &ReleaseHandler{
		releaseUC: releaseUC,
		channels:  channels,
		clock:     clock,
	}
}

type channelResponse struct {
	Name        string  `json:"name"`
	TagPrefix   string  `json:"tag_prefix"`
	WindowHours float64 `json:"window_hours"`
}

// ListChannels handles GET /channels
func (h *ReleaseHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	resp := make([]channelResponse, 0, len(h.channels))
	for _, ch := range h.channels.List() {
		resp = append(resp, channelResponse{
			Name:        ch.Name,
			TagPrefix:   ch.Policy.TagPrefix,
			WindowHours: ch.Policy.Window.Hours(),
		})
	}
	writeJSON(r.Context(), w, resp, http.StatusOK)
}

// Latest handles GET /channels/{name}/latest. It responds 204 when no
// release qualifies.
func (h *ReleaseHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, err := h.channels.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeError(ctx, w, err, http.StatusNotFound)
		return
	}

	sel, err := h.releaseUC.LatestTag(ctx, channel, h.clock())
	if err != nil {
		errutil.Handle(ctx, "failed to select latest release", err)
		writeError(ctx, w, err, http.StatusBadGateway)
		return
	}

	if !sel.Found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return h.releaseUC.Notify(ctx, sel)
	})

	writeJSON(ctx, w, sel, http.StatusOK)
}
