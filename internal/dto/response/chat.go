package response

import (
	"time"

	"opentalk/internal/data/entity"
)

type ChatResponse struct {
	ID              string           `json:"id"`
	Name            *string          `json:"name,omitempty"`
	IsGroup         bool             `json:"is_group"`
	Avatar          *string          `json:"avatar,omitempty"`
	UnreadCount     int64            `json:"unread_count"`
	LastMessage     *MessageResponse `json:"last_message,omitempty"`
	LastMessageTime *time.Time       `json:"last_message_time,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type MessageResponse struct {
	ID          string                `json:"id"`
	ChatID      string                `json:"chat_id"`
	Sender      *UserResponse         `json:"sender,omitempty"`
	Content     string                `json:"content"`
	IsRead      bool                  `json:"is_read"`
	Attachments []*AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	URL      string `json:"url"`
}

func ChatToResponse(chat *entity.Chat) *ChatResponse {
	return &ChatResponse{
		ID:        chat.ID.String(),
		Name:      chat.Name,
		IsGroup:   chat.IsGroup,
		Avatar:    chat.Avatar,
		CreatedAt: chat.CreatedAt,
	}
}

func MessageToResponse(msg *entity.Message, sender *entity.User) *MessageResponse {
	resp := &MessageResponse{
		ID:        msg.ID.String(),
		ChatID:    msg.ChatID.String(),
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}

	if sender != nil {
		resp.Sender = UserToResponse(sender)
	}

	return resp
}

func AttachmentToResponse(a *entity.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:       a.ID.String(),
		FileName: a.FileName,
		FileType: string(a.FileType),
		FileSize: a.FileSize,
		URL:      a.URL,
	}
}
