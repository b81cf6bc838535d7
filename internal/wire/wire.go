package wire

import (
	"net/http"

	"opentalk/internal/adaptor"
	"opentalk/internal/data/repository"
	"opentalk/internal/usecase"
	"opentalk/pkg/database"
	"opentalk/pkg/middleware"
	"opentalk/pkg/notifier"
	"opentalk/pkg/token"
	"opentalk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

func Wiring(
	repo *repository.Repository,
	db database.PgxIface,
	rdb *redis.Client,
	maker *token.Maker,
	sink notifier.Sink,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, db, rdb, maker, sink, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, maker, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	maker *token.Maker,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(config.RateLimit))

	wireAuth(r, handler.Auth, maker, logger)
	wireUser(r, handler.User, handler.Post, maker, logger)
	wirePost(r, handler.Post, maker, logger)
	wireChat(r, handler.Chat, maker, logger)
	wireNotification(r, handler.Notification, maker, logger)
	wireVoice(r, handler.Voice, maker, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
