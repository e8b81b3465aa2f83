package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"society-console/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotificationHandler 通知列表与已读标记
type NotificationHandler struct {
	sessions  *service.Registry
	readyWait time.Duration
	logger    *zap.Logger
}

func NewNotificationHandler(sessions *service.Registry, readyWait time.Duration, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{sessions: sessions, readyWait: readyWait, logger: logger}
}

func (h *NotificationHandler) view(r *http.Request) *service.NotificationView {
	viewer, _ := ViewerFrom(r.Context())
	session := h.sessions.Acquire(viewer)
	waitReady(r.Context(), session.Notifications.Ready(), h.readyWait)
	return session.Notifications
}

// List 可见通知、未读计数与新鲜度
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.view(r).State()))
}

// MarkRead POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail("invalid notification id"))
		return
	}

	view := h.view(r)
	if err := view.MarkRead(r.Context(), id); err != nil {
		h.writeMarkError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"unread_count": view.UnreadCount()}))
}

// MarkAllRead POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	view := h.view(r)
	n, err := view.MarkAllRead(r.Context())
	if err != nil {
		h.writeMarkError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"marked": n, "unread_count": view.UnreadCount()}))
}

func (h *NotificationHandler) writeMarkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Fail(err.Error()))
	default:
		// 本地状态已回滚
		h.logger.Warn("Mark notification read failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
	}
}
