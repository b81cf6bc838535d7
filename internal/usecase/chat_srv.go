package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/internal/dto/response"
	"opentalk/pkg/database"
	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService interface {
	CreateDirect(ctx context.Context, userID uuid.UUID, req *request.CreateChatRequest) (*response.ChatResponse, error)
	CreateGroup(ctx context.Context, userID uuid.UUID, req *request.CreateGroupChatRequest) (*response.ChatResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]*response.ChatResponse, error)
	Messages(ctx context.Context, userID, chatID uuid.UUID, page, perPage int) ([]*response.MessageResponse, error)
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, req *request.SendMessageRequest) (*response.MessageResponse, error)
	MarkRead(ctx context.Context, userID, chatID uuid.UUID) error
	RegisterAttachment(ctx context.Context, userID uuid.UUID, fileName string, fileSize int64, url string) (*response.AttachmentResponse, error)
}

type chatService struct {
	repo *repository.Repository
	db   database.PgxIface
	log  *zap.Logger
}

func NewChatService(repo *repository.Repository, db database.PgxIface, log *zap.Logger) ChatService {
	return &chatService{
		repo: repo,
		db:   db,
		log:  log,
	}
}

// CreateDirect is idempotent: an existing one-on-one chat between the
// two users is returned instead of creating a duplicate.
func (s *chatService) CreateDirect(ctx context.Context, userID uuid.UUID, req *request.CreateChatRequest) (*response.ChatResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	otherID, err := utils.ParseUUID(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user_id", ErrValidation)
	}
	if otherID == userID {
		return nil, fmt.Errorf("%w: cannot chat with yourself", ErrValidation)
	}

	other, err := s.repo.User.FindByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	existing, err := s.repo.Chat.FindDirectChat(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return response.ChatToResponse(existing), nil
	}

	now := time.Now()
	chat := &entity.Chat{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		IsGroup: false,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Chat.Create(ctx, tx, chat); err != nil {
		return nil, err
	}

	for _, memberID := range []uuid.UUID{userID, otherID} {
		member := &entity.ChatMember{
			ID:       uuid.New(),
			ChatID:   chat.ID,
			UserID:   memberID,
			JoinedAt: now,
		}
		if err := s.repo.Chat.AddMember(ctx, tx, member); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit chat: %w", err)
	}

	s.log.Info("Direct chat created",
		zap.String("chat_id", chat.ID.String()),
		zap.String("user_id", userID.String()))

	return response.ChatToResponse(chat), nil
}

func (s *chatService) CreateGroup(ctx context.Context, userID uuid.UUID, req *request.CreateGroupChatRequest) (*response.ChatResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	memberIDs := []uuid.UUID{userID}
	for _, raw := range req.MemberIDs {
		id, err := utils.ParseUUID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed member id", ErrValidation)
		}
		if id == userID {
			continue
		}
		member, err := s.repo.User.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("%w: member %s", ErrNotFound, raw)
		}
		memberIDs = append(memberIDs, id)
	}

	now := time.Now()
	chat := &entity.Chat{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:    &req.Name,
		IsGroup: true,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Chat.Create(ctx, tx, chat); err != nil {
		return nil, err
	}

	for _, memberID := range memberIDs {
		member := &entity.ChatMember{
			ID:       uuid.New(),
			ChatID:   chat.ID,
			UserID:   memberID,
			JoinedAt: now,
		}
		if err := s.repo.Chat.AddMember(ctx, tx, member); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit group chat: %w", err)
	}

	return response.ChatToResponse(chat), nil
}

func (s *chatService) List(ctx context.Context, userID uuid.UUID) ([]*response.ChatResponse, error) {
	summaries, err := s.repo.Chat.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*response.ChatResponse, 0, len(summaries))
	for _, sum := range summaries {
		resp := response.ChatToResponse(&sum.Chat)
		resp.UnreadCount = sum.UnreadCount
		resp.LastMessageTime = sum.LastMessageTime

		last, err := s.repo.Message.FindLastByChat(ctx, sum.Chat.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			sender, err := s.repo.User.FindByID(ctx, last.SenderID)
			if err != nil {
				return nil, err
			}
			resp.LastMessage = response.MessageToResponse(last, sender)
		}

		out = append(out, resp)
	}
	return out, nil
}

func (s *chatService) requireMember(ctx context.Context, chatID, userID uuid.UUID) error {
	chat, err := s.repo.Chat.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("%w: chat", ErrNotFound)
	}

	member, err := s.repo.Chat.FindMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: not a chat member", ErrForbidden)
	}

	return nil
}

func (s *chatService) Messages(ctx context.Context, userID, chatID uuid.UUID, page, perPage int) ([]*response.MessageResponse, error) {
	if err := s.requireMember(ctx, chatID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.Message.FindByChat(ctx, chatID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}

	out := make([]*response.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		sender, err := s.repo.User.FindByID(ctx, msg.SenderID)
		if err != nil {
			return nil, err
		}

		resp := response.MessageToResponse(msg, sender)

		attachments, err := s.repo.Message.FindAttachments(ctx, msg.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range attachments {
			resp.Attachments = append(resp.Attachments, response.AttachmentToResponse(a))
		}

		out = append(out, resp)
	}
	return out, nil
}

func (s *chatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, req *request.SendMessageRequest) (*response.MessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	if err := s.requireMember(ctx, chatID, userID); err != nil {
		return nil, err
	}

	// The membership row can outlive a soft-deleted account; a token
	// from such an account must not produce messages.
	sender, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}

	msg := &entity.Message{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ChatID:   chatID,
		SenderID: userID,
		Content:  req.Content,
	}

	if err := s.repo.Message.Create(ctx, msg); err != nil {
		return nil, err
	}

	resp := response.MessageToResponse(msg, nil)

	for _, raw := range req.AttachmentIDs {
		attachmentID, err := utils.ParseUUID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed attachment id", ErrValidation)
		}
		attachment, err := s.repo.Attachment.FindByID(ctx, attachmentID)
		if err != nil {
			return nil, err
		}
		if attachment == nil {
			return nil, fmt.Errorf("%w: attachment", ErrNotFound)
		}
		if err := s.repo.Message.LinkAttachment(ctx, msg.ID, attachmentID); err != nil {
			return nil, err
		}
		resp.Attachments = append(resp.Attachments, response.AttachmentToResponse(attachment))
	}

	resp.Sender = response.UserToResponse(sender)

	members, err := s.repo.Chat.FindMembers(ctx, chatID)
	if err != nil {
		s.log.Warn("Failed to load members for message notification", zap.Error(err))
		return resp, nil
	}
	for _, member := range members {
		if member.UserID == userID {
			continue
		}
		s.notify(ctx, member.UserID, "new message from "+sender.Username, &chatID)
	}

	return resp, nil
}

func (s *chatService) MarkRead(ctx context.Context, userID, chatID uuid.UUID) error {
	if err := s.requireMember(ctx, chatID, userID); err != nil {
		return err
	}
	return s.repo.Chat.MarkRead(ctx, chatID, userID)
}

// RegisterAttachment records file metadata; the bytes themselves live
// in external storage reachable through the url.
func (s *chatService) RegisterAttachment(ctx context.Context, userID uuid.UUID, fileName string, fileSize int64, url string) (*response.AttachmentResponse, error) {
	if fileName == "" || url == "" {
		return nil, fmt.Errorf("%w: file_name and url are required", ErrValidation)
	}

	attachment := &entity.Attachment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UploaderID: userID,
		FileName:   fileName,
		FileType:   attachmentTypeFor(fileName),
		FileSize:   fileSize,
		URL:        url,
	}

	if err := s.repo.Attachment.Create(ctx, attachment); err != nil {
		return nil, err
	}

	return response.AttachmentToResponse(attachment), nil
}

func attachmentTypeFor(fileName string) entity.AttachmentType {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return entity.AttachmentImage
	case ".mp4", ".mov", ".avi", ".webm":
		return entity.AttachmentVideo
	case ".mp3", ".ogg", ".wav", ".m4a":
		return entity.AttachmentAudio
	case ".pdf", ".doc", ".docx", ".txt":
		return entity.AttachmentDocument
	default:
		return entity.AttachmentOther
	}
}

func (s *chatService) notify(ctx context.Context, userID uuid.UUID, content string, chatID *uuid.UUID) {
	refType := "chat"
	n := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:        userID,
		Type:          entity.NotificationMessage,
		Content:       content,
		ReferenceID:   chatID,
		ReferenceType: &refType,
		IsRead:        false,
	}

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.log.Warn("Failed to create message notification", zap.Error(err))
	}
}
