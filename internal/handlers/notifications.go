package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/validation"
)

type NotificationHandler struct {
	Notifications NotificationStore
	Hub           Hub
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Notifications.ListNotifications(r.Context(), auth.MustClaims(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Notification{"notifications": list})
}

// Create stores an admin notification and pushes it to connected clients.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := validation.NewValidator().Required("text", req.Text).MaxLength("text", req.Text, 1000)
	if err := v.Err("invalid notification"); err != nil {
		writeError(w, r, err)
		return
	}

	claims := auth.MustClaims(r.Context())
	n, err := h.Notifications.CreateNotification(r.Context(), req.Text, claims.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.Hub != nil {
		h.Hub.Broadcast(*n)
	}
	slog.Info("Notification broadcast", "notification_id", n.ID, "by", claims.ID)
	writeJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Notifications.MarkNotificationRead(r.Context(), id, auth.MustClaims(r.Context()).ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "notification marked as read")
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Notifications.DeleteNotification(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "notification deleted")
}

func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r, auth.MustClaims(r.Context()))
}
