package request

type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,max=5000"`
	MediaURLs []string `json:"media_urls,omitempty" validate:"omitempty,max=10,dive,url"`
}

type RepostRequest struct {
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=5000"`
}

type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,max=2000"`
	ParentID *string `json:"parent_id,omitempty" validate:"omitempty,uuid4"`
}
