package usecase

import (
	"opentalk/internal/data/repository"
	"opentalk/pkg/database"
	"opentalk/pkg/notifier"
	"opentalk/pkg/token"
	"opentalk/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Post         PostService
	Chat         ChatService
	Notification NotificationService
	Voice        VoiceService
}

func NewService(
	repo *repository.Repository,
	db database.PgxIface,
	rdb *redis.Client,
	maker *token.Maker,
	sink notifier.Sink,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, rdb, maker, sink, config, log),
		User:         NewUserService(repo, rdb, log),
		Post:         NewPostService(repo, db, log),
		Chat:         NewChatService(repo, db, log),
		Notification: NewNotificationService(repo, log),
		Voice:        NewVoiceService(repo, log),
	}
}
