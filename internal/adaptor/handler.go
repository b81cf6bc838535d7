package adaptor

import (
	"opentalk/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Post         *PostHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	Voice        *VoiceHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Post:         NewPostHandler(service.Post, log),
		Chat:         NewChatHandler(service.Chat, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Voice:        NewVoiceHandler(service.Voice, log),
	}
}
