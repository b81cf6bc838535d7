package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationMessage NotificationType = "message"
	NotificationRepost  NotificationType = "repost"
	NotificationSystem  NotificationType = "system"
)

type Notification struct {
	BaseSimple
	UserID        uuid.UUID        `db:"user_id"`
	Type          NotificationType `db:"type"`
	Content       string           `db:"content"`
	ReferenceID   *uuid.UUID       `db:"reference_id"`
	ReferenceType *string          `db:"reference_type"`
	IsRead        bool             `db:"is_read"`
}
