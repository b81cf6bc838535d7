package entity

import "github.com/google/uuid"

type Comment struct {
	BaseNoDelete
	PostID     uuid.UUID  `db:"post_id"`
	UserID     uuid.UUID  `db:"user_id"`
	ParentID   *uuid.UUID `db:"parent_id"`
	Content    string     `db:"content"`
	LikesCount int        `db:"likes_count"`
}
