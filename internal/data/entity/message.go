package entity

import "github.com/google/uuid"

type Message struct {
	BaseSimple
	ChatID   uuid.UUID `db:"chat_id"`
	SenderID uuid.UUID `db:"sender_id"`
	Content  string    `db:"content"`
	IsRead   bool      `db:"is_read"`
}
