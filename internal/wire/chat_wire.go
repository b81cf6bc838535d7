package wire

import (
	"opentalk/internal/adaptor"
	"opentalk/pkg/middleware"
	"opentalk/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireChat(
	r chi.Router,
	chatHandler *adaptor.ChatHandler,
	maker *token.Maker,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(maker, log))

		r.Get("/api/chats", chatHandler.List)
		r.Post("/api/chats", chatHandler.CreateDirect)
		r.Post("/api/chats/group", chatHandler.CreateGroup)
		r.Get("/api/chats/{id}/messages", chatHandler.Messages)
		r.Post("/api/chats/{id}/messages", chatHandler.SendMessage)
		r.Post("/api/chats/{id}/read", chatHandler.MarkRead)
		r.Post("/api/attachments", chatHandler.RegisterAttachment)
	})
}
