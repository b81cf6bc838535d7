package wire

import (
	"opentalk/internal/adaptor"
	"opentalk/pkg/middleware"
	"opentalk/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	postHandler *adaptor.PostHandler,
	maker *token.Maker,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(maker, log))

		r.Get("/api/users/me", userHandler.GetMe)
		r.Put("/api/users/me", userHandler.UpdateMe)
		r.Get("/api/users/suggested", userHandler.GetSuggested)
		r.Get("/api/users", userHandler.Search)
		r.Get("/api/users/{id}", userHandler.GetProfile)
		r.Post("/api/users/{id}/follow", userHandler.Follow)
		r.Delete("/api/users/{id}/unfollow", userHandler.Unfollow)
		r.Get("/api/users/{id}/followers", userHandler.GetFollowers)
		r.Get("/api/users/{id}/following", userHandler.GetFollowing)
		r.Get("/api/users/{id}/posts", postHandler.ByUser)
		r.Patch("/api/update-status", userHandler.UpdateStatus)
		r.Post("/api/change-password", userHandler.ChangePassword)
		r.Post("/api/online-status", userHandler.SetOnline)
		r.Get("/api/online-status", userHandler.GetOnline)
	})
}
