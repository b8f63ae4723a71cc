package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aminekb/bebeshop/internal/notify"
	"github.com/go-chi/chi/v5"
)

type NotificationFeed interface {
	Unread(ctx context.Context) (int, error)
	Recent(ctx context.Context, n int) ([]notify.Note, error)
	MarkRead(ctx context.Context) error
}

// NotificationsHandler serves the console's polling feed. Any authenticated
// staff member may read it, so the routes use Authenticate rather than a
// specific permission.
type NotificationsHandler struct {
	Feed NotificationFeed
}

func (h *NotificationsHandler) Register(r *chi.Mux, gate *Gate) {
	r.Route("/admin/notifications", func(r chi.Router) {
		r.Use(gate.Authenticate)
		r.Get("/", h.get)
		r.Post("/read", h.markRead)
	})
}

func (h *NotificationsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	n := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		n = v
	}
	unread, err := h.Feed.Unread(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	recent, err := h.Feed.Recent(ctx, n)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unread": unread, "recent": recent})
}

func (h *NotificationsHandler) markRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Feed.MarkRead(ctx); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
