package wire

import (
	"opentalk/internal/adaptor"
	"opentalk/pkg/middleware"
	"opentalk/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	maker *token.Maker,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(maker, log))

		r.Get("/api/notifications", notificationHandler.List)
		r.Get("/api/notifications/unread-count", notificationHandler.UnreadCount)
		r.Post("/api/notifications/{id}/read", notificationHandler.MarkRead)
		r.Post("/api/notifications/read-all", notificationHandler.MarkAllRead)

		r.Post("/api/premium/subscribe", notificationHandler.Subscribe)
		r.Get("/api/premium/status", notificationHandler.PremiumStatus)
		r.Post("/api/premium/cancel", notificationHandler.CancelPremium)
	})
}
