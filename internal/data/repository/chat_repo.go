package repository

import (
	"context"
	"fmt"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ChatSummary is a chat row annotated with per-member unread count and
// last-message ordering, computed in a single query.
type ChatSummary struct {
	Chat            entity.Chat
	UnreadCount     int64
	LastMessageTime *time.Time
}

type ChatRepository interface {
	Create(ctx context.Context, tx pgx.Tx, chat *entity.Chat) error
	AddMember(ctx context.Context, tx pgx.Tx, member *entity.ChatMember) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error)
	FindDirectChat(ctx context.Context, userA, userB uuid.UUID) (*entity.Chat, error)
	FindMember(ctx context.Context, chatID, userID uuid.UUID) (*entity.ChatMember, error)
	FindMembers(ctx context.Context, chatID uuid.UUID) ([]*entity.ChatMember, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*ChatSummary, error)
	MarkRead(ctx context.Context, chatID, userID uuid.UUID) error
}

type chatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewChatRepository(db database.PgxIface, log *zap.Logger) ChatRepository {
	return &chatRepository{
		db:  db,
		log: log.With(zap.String("repository", "chat")),
	}
}

func (r *chatRepository) Create(ctx context.Context, tx pgx.Tx, chat *entity.Chat) error {
	query := `
		INSERT INTO chats (id, name, is_group, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		chat.ID,
		chat.Name,
		chat.IsGroup,
		chat.Avatar,
		chat.CreatedAt,
		chat.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create chat", zap.Error(err))
		return fmt.Errorf("create chat: %w", err)
	}

	return nil
}

func (r *chatRepository) AddMember(ctx context.Context, tx pgx.Tx, member *entity.ChatMember) error {
	query := `
		INSERT INTO chat_members (id, chat_id, user_id, joined_at, last_read_at, is_pinned)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		member.ID,
		member.ChatID,
		member.UserID,
		member.JoinedAt,
		member.LastReadAt,
		member.IsPinned,
	)

	if err != nil {
		r.log.Error("Failed to add chat member",
			zap.Error(err),
			zap.String("chat_id", member.ChatID.String()),
			zap.String("user_id", member.UserID.String()),
		)
		return fmt.Errorf("add member to chat %s: %w", member.ChatID.String(), err)
	}

	return nil
}

func (r *chatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	query := `
		SELECT id, name, is_group, avatar, created_at, updated_at
		FROM chats
		WHERE id = $1
	`

	var chat entity.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.Name,
		&chat.IsGroup,
		&chat.Avatar,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find chat", zap.Error(err), zap.String("chat_id", id.String()))
		return nil, fmt.Errorf("find chat %s: %w", id.String(), err)
	}

	return &chat, nil
}

// FindDirectChat returns the existing non-group chat both users belong
// to, if any. Direct chat creation is idempotent because of this check.
func (r *chatRepository) FindDirectChat(ctx context.Context, userA, userB uuid.UUID) (*entity.Chat, error) {
	query := `
		SELECT c.id, c.name, c.is_group, c.avatar, c.created_at, c.updated_at
		FROM chats c
		JOIN chat_members ma ON ma.chat_id = c.id AND ma.user_id = $1
		JOIN chat_members mb ON mb.chat_id = c.id AND mb.user_id = $2
		WHERE c.is_group = false
		LIMIT 1
	`

	var chat entity.Chat
	err := r.db.QueryRow(ctx, query, userA, userB).Scan(
		&chat.ID,
		&chat.Name,
		&chat.IsGroup,
		&chat.Avatar,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find direct chat", zap.Error(err))
		return nil, fmt.Errorf("find direct chat: %w", err)
	}

	return &chat, nil
}

func (r *chatRepository) FindMember(ctx context.Context, chatID, userID uuid.UUID) (*entity.ChatMember, error) {
	query := `
		SELECT id, chat_id, user_id, joined_at, last_read_at, is_pinned
		FROM chat_members
		WHERE chat_id = $1 AND user_id = $2
	`

	var member entity.ChatMember
	err := r.db.QueryRow(ctx, query, chatID, userID).Scan(
		&member.ID,
		&member.ChatID,
		&member.UserID,
		&member.JoinedAt,
		&member.LastReadAt,
		&member.IsPinned,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find chat member", zap.Error(err))
		return nil, fmt.Errorf("find chat member: %w", err)
	}

	return &member, nil
}

func (r *chatRepository) FindMembers(ctx context.Context, chatID uuid.UUID) ([]*entity.ChatMember, error) {
	query := `
		SELECT id, chat_id, user_id, joined_at, last_read_at, is_pinned
		FROM chat_members
		WHERE chat_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, chatID)
	if err != nil {
		r.log.Error("Failed to query chat members",
			zap.Error(err),
			zap.String("chat_id", chatID.String()),
		)
		return nil, fmt.Errorf("query members for chat %s: %w", chatID.String(), err)
	}
	defer rows.Close()

	var members []*entity.ChatMember
	for rows.Next() {
		var member entity.ChatMember
		err := rows.Scan(
			&member.ID,
			&member.ChatID,
			&member.UserID,
			&member.JoinedAt,
			&member.LastReadAt,
			&member.IsPinned,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat member row: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat members rows: %w", err)
	}

	return members, nil
}

// ListForUser returns the user's chats ordered by latest activity. The
// unread count is messages newer than the member's last_read_at that the
// member did not send.
func (r *chatRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ChatSummary, error) {
	query := `
		SELECT c.id, c.name, c.is_group, c.avatar, c.created_at, c.updated_at,
		       (
		           SELECT COUNT(*)
		           FROM messages msg
		           WHERE msg.chat_id = c.id
		             AND msg.sender_id != $1
		             AND (m.last_read_at IS NULL OR msg.created_at > m.last_read_at)
		       ) AS unread_count,
		       (
		           SELECT MAX(msg.created_at)
		           FROM messages msg
		           WHERE msg.chat_id = c.id
		       ) AS last_message_time
		FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.user_id = $1
		ORDER BY last_message_time DESC NULLS LAST
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list chats",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list chats for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var summaries []*ChatSummary
	for rows.Next() {
		var s ChatSummary
		err := rows.Scan(
			&s.Chat.ID,
			&s.Chat.Name,
			&s.Chat.IsGroup,
			&s.Chat.Avatar,
			&s.Chat.CreatedAt,
			&s.Chat.UpdatedAt,
			&s.UnreadCount,
			&s.LastMessageTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat summary row: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat summaries: %w", err)
	}

	return summaries, nil
}

// MarkRead advances the member's read cursor and flags messages read.
func (r *chatRepository) MarkRead(ctx context.Context, chatID, userID uuid.UUID) error {
	query := `
		UPDATE chat_members
		SET last_read_at = NOW()
		WHERE chat_id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, chatID, userID)
	if err != nil {
		r.log.Error("Failed to mark chat read",
			zap.Error(err),
			zap.String("chat_id", chatID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("mark chat %s read: %w", chatID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat member not found")
	}

	_, err = r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = true
		WHERE chat_id = $1 AND sender_id != $2 AND is_read = false
	`, chatID, userID)
	if err != nil {
		r.log.Error("Failed to flag messages read", zap.Error(err))
		return fmt.Errorf("flag messages read in chat %s: %w", chatID.String(), err)
	}

	return nil
}
