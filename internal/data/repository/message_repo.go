package repository

import (
	"context"
	"fmt"

	"opentalk/internal/data/entity"
	"opentalk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error)
	FindByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*entity.Message, error)
	FindLastByChat(ctx context.Context, chatID uuid.UUID) (*entity.Message, error)
	LinkAttachment(ctx context.Context, messageID, attachmentID uuid.UUID) error
	FindAttachments(ctx context.Context, messageID uuid.UUID) ([]*entity.Attachment, error)
}

type messageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMessageRepository(db database.PgxIface, log *zap.Logger) MessageRepository {
	return &messageRepository{
		db:  db,
		log: log.With(zap.String("repository", "message")),
	}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	query := `
		INSERT INTO messages (id, chat_id, sender_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.ChatID,
		message.SenderID,
		message.Content,
		message.IsRead,
		message.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create message",
			zap.Error(err),
			zap.String("chat_id", message.ChatID.String()),
		)
		return fmt.Errorf("create message in chat %s: %w", message.ChatID.String(), err)
	}

	return nil
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, content, is_read, created_at
		FROM messages
		WHERE id = $1
	`

	var message entity.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.ChatID,
		&message.SenderID,
		&message.Content,
		&message.IsRead,
		&message.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find message", zap.Error(err), zap.String("message_id", id.String()))
		return nil, fmt.Errorf("find message %s: %w", id.String(), err)
	}

	return &message, nil
}

// FindByChat returns newest first, mirroring client rendering order.
func (r *messageRepository) FindByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, content, is_read, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, chatID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query messages",
			zap.Error(err),
			zap.String("chat_id", chatID.String()),
		)
		return nil, fmt.Errorf("query messages for chat %s: %w", chatID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var message entity.Message
		err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.SenderID,
			&message.Content,
			&message.IsRead,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages rows: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) FindLastByChat(ctx context.Context, chatID uuid.UUID) (*entity.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, content, is_read, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var message entity.Message
	err := r.db.QueryRow(ctx, query, chatID).Scan(
		&message.ID,
		&message.ChatID,
		&message.SenderID,
		&message.Content,
		&message.IsRead,
		&message.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find last message", zap.Error(err))
		return nil, fmt.Errorf("find last message for chat %s: %w", chatID.String(), err)
	}

	return &message, nil
}

func (r *messageRepository) LinkAttachment(ctx context.Context, messageID, attachmentID uuid.UUID) error {
	query := `
		INSERT INTO message_attachments (message_id, attachment_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, messageID, attachmentID)
	if err != nil {
		r.log.Error("Failed to link attachment",
			zap.Error(err),
			zap.String("message_id", messageID.String()),
		)
		return fmt.Errorf("link attachment to message %s: %w", messageID.String(), err)
	}

	return nil
}

func (r *messageRepository) FindAttachments(ctx context.Context, messageID uuid.UUID) ([]*entity.Attachment, error) {
	query := `
		SELECT a.id, a.uploader_id, a.file_name, a.file_type, a.file_size, a.url, a.created_at
		FROM attachments a
		JOIN message_attachments ma ON ma.attachment_id = a.id
		WHERE ma.message_id = $1
	`

	rows, err := r.db.Query(ctx, query, messageID)
	if err != nil {
		r.log.Error("Failed to query message attachments", zap.Error(err))
		return nil, fmt.Errorf("query attachments for message %s: %w", messageID.String(), err)
	}
	defer rows.Close()

	var attachments []*entity.Attachment
	for rows.Next() {
		var a entity.Attachment
		err := rows.Scan(
			&a.ID,
			&a.UploaderID,
			&a.FileName,
			&a.FileType,
			&a.FileSize,
			&a.URL,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attachment row: %w", err)
		}
		attachments = append(attachments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments rows: %w", err)
	}

	return attachments, nil
}
