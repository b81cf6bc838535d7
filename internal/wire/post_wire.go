package wire

import (
	"opentalk/internal/adaptor"
	"opentalk/pkg/middleware"
	"opentalk/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePost(
	r chi.Router,
	postHandler *adaptor.PostHandler,
	maker *token.Maker,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(maker, log))

		r.Post("/api/posts", postHandler.Create)
		r.Get("/api/posts/{id}", postHandler.Get)
		r.Delete("/api/posts/{id}", postHandler.Delete)
		r.Post("/api/posts/{id}/repost", postHandler.Repost)
		r.Post("/api/posts/{id}/like", postHandler.Like)
		r.Delete("/api/posts/{id}/like", postHandler.Unlike)
		r.Post("/api/posts/{id}/comments", postHandler.Comment)
		r.Get("/api/posts/{id}/comments", postHandler.Comments)
		r.Delete("/api/comments/{id}", postHandler.DeleteComment)
		r.Post("/api/comments/{id}/like", postHandler.LikeComment)
		r.Delete("/api/comments/{id}/like", postHandler.UnlikeComment)
		r.Get("/api/feed", postHandler.Feed)
		r.Get("/api/trends", postHandler.Trends)
		r.Get("/api/hashtags", postHandler.SearchHashtags)
		r.Get("/api/hashtags/{name}/posts", postHandler.ByHashtag)
	})
}
