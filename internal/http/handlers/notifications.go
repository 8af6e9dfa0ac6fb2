package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) NotificationsList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := queryInt(r, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	items, err := a.Notifications.ListByRecipient(r.Context(), actor.ID, unreadOnly, limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"notifications": items})
}

func (a *App) NotificationsMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}
	if err := a.Notifications.MarkRead(r.Context(), actor.ID, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}
