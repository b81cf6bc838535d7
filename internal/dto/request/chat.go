package request

type CreateChatRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type CreateGroupChatRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,uuid4"`
}

type SendMessageRequest struct {
	Content       string   `json:"content" validate:"required_without=AttachmentIDs,max=5000"`
	AttachmentIDs []string `json:"attachment_ids,omitempty" validate:"omitempty,max=10,dive,uuid4"`
}
