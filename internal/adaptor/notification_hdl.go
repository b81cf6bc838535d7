package adaptor

import (
	"encoding/json"
	"net/http"

	"opentalk/internal/dto/request"
	"opentalk/internal/usecase"
	"opentalk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/notifications (protected)
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	notifications, err := h.service.List(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}

// UnreadCount handles GET /api/notifications/unread-count (protected)
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "count unread notifications")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int64{"unread_count": count})
}

// MarkRead handles POST /api/notifications/{id}/read (protected)
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	notificationID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid notification ID", nil)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		writeServiceError(w, h.log, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "Notification marked as read", nil)
}

// MarkAllRead handles POST /api/notifications/read-all (protected)
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		writeServiceError(w, h.log, err, "mark all notifications read")
		return
	}

	utils.ResponseSuccess(w, "All notifications marked as read", nil)
}

// Subscribe handles POST /api/premium/subscribe (protected)
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SubscribePremiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	sub, err := h.service.Subscribe(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "subscribe premium")
		return
	}

	utils.ResponseCreated(w, "Premium activated", sub)
}

// PremiumStatus handles GET /api/premium/status (protected)
func (h *NotificationHandler) PremiumStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	sub, err := h.service.PremiumStatus(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get premium status")
		return
	}

	utils.ResponseSuccess(w, "success", sub)
}

// CancelPremium handles POST /api/premium/cancel (protected)
func (h *NotificationHandler) CancelPremium(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.CancelPremium(r.Context(), userID); err != nil {
		writeServiceError(w, h.log, err, "cancel premium")
		return
	}

	utils.ResponseSuccess(w, "Premium cancelled", nil)
}
