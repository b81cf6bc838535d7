package request

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Theme    *string `json:"theme_preference,omitempty" validate:"omitempty,oneof=light dark"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=online offline dnd"`
}
