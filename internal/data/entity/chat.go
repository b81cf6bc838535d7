package entity

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	BaseNoDelete
	Name    *string `db:"name"`
	IsGroup bool    `db:"is_group"`
	Avatar  *string `db:"avatar"`
}

type ChatMember struct {
	ID         uuid.UUID  `db:"id"`
	ChatID     uuid.UUID  `db:"chat_id"`
	UserID     uuid.UUID  `db:"user_id"`
	JoinedAt   time.Time  `db:"joined_at"`
	LastReadAt *time.Time `db:"last_read_at"`
	IsPinned   bool       `db:"is_pinned"`
}
