package entity

import "github.com/google/uuid"

type Post struct {
	BaseNoDelete
	UserID         uuid.UUID  `db:"user_id"`
	Content        string     `db:"content"`
	MediaURLs      []string   `db:"media_urls"`
	LikesCount     int        `db:"likes_count"`
	RepostsCount   int        `db:"reposts_count"`
	CommentsCount  int        `db:"comments_count"`
	IsRepost       bool       `db:"is_repost"`
	OriginalPostID *uuid.UUID `db:"original_post_id"`
}
