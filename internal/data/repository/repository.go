package repository

import (
	"opentalk/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User             UserRepository
	VerificationCode VerificationCodeRepository
	Subscription     SubscriptionRepository
	Post             PostRepository
	Comment          CommentRepository
	Like             LikeRepository
	Hashtag          HashtagRepository
	Chat             ChatRepository
	Message          MessageRepository
	Attachment       AttachmentRepository
	Notification     NotificationRepository
	Premium          PremiumRepository
	VoiceChannel     VoiceChannelRepository
	Call             CallRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		VerificationCode: NewVerificationCodeRepository(db, log),
		Subscription:     NewSubscriptionRepository(db, log),
		Post:             NewPostRepository(db, log),
		Comment:          NewCommentRepository(db, log),
		Like:             NewLikeRepository(db, log),
		Hashtag:          NewHashtagRepository(db, log),
		Chat:             NewChatRepository(db, log),
		Message:          NewMessageRepository(db, log),
		Attachment:       NewAttachmentRepository(db, log),
		Notification:     NewNotificationRepository(db, log),
		Premium:          NewPremiumRepository(db, log),
		VoiceChannel:     NewVoiceChannelRepository(db, log),
		Call:             NewCallRepository(db, log),
	}
}
