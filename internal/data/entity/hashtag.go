package entity

import (
	"time"

	"github.com/google/uuid"
)

type Hashtag struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	PostCount int       `db:"post_count"`
}

type Trend struct {
	ID         uuid.UUID `db:"id"`
	HashtagID  uuid.UUID `db:"hashtag_id"`
	Name       string    `db:"name"` // joined from hashtags
	TrendScore float64   `db:"trend_score"`
	Category   string    `db:"category"`
	Location   string    `db:"location"`
	CreatedAt  time.Time `db:"created_at"`
}
