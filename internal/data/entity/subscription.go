package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a follow edge between two users.
type Subscription struct {
	ID         uuid.UUID `db:"id"`
	FollowerID uuid.UUID `db:"follower_id"`
	FollowedID uuid.UUID `db:"followed_id"`
	CreatedAt  time.Time `db:"created_at"`
}
