package entity

import (
	"time"

	"github.com/google/uuid"
)

type LikeTarget string

const (
	LikeTargetPost    LikeTarget = "post"
	LikeTargetComment LikeTarget = "comment"
)

// Like is unique per (user, content_type, content_id).
type Like struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	ContentType LikeTarget `db:"content_type"`
	ContentID   uuid.UUID  `db:"content_id"`
	CreatedAt   time.Time  `db:"created_at"`
}
