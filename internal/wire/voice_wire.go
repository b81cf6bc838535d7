package wire

import (
	"opentalk/internal/adaptor"
	"opentalk/pkg/middleware"
	"opentalk/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVoice(
	r chi.Router,
	voiceHandler *adaptor.VoiceHandler,
	maker *token.Maker,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(maker, log))

		r.Post("/api/voice/channels", voiceHandler.CreateChannel)
		r.Get("/api/voice/channels", voiceHandler.ListChannels)
		r.Post("/api/voice/channels/{id}/join", voiceHandler.JoinChannel)
		r.Post("/api/voice/channels/{id}/leave", voiceHandler.LeaveChannel)
		r.Get("/api/voice/channels/{id}/members", voiceHandler.ChannelMembers)
		r.Patch("/api/voice/channels/{id}/status", voiceHandler.UpdateStatus)
		r.Delete("/api/voice/channels/{id}", voiceHandler.CloseChannel)

		r.Post("/api/calls", voiceHandler.StartCall)
		r.Post("/api/calls/{id}/end", voiceHandler.EndCall)
		r.Get("/api/calls", voiceHandler.CallHistory)
	})
}
