package response

import (
	"time"

	"opentalk/internal/data/entity"
)

type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	FullName   string    `json:"full_name"`
	Avatar     *string   `json:"avatar,omitempty"`
	Bio        string    `json:"bio"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	Theme      string    `json:"theme_preference"`
	IsPremium  bool      `json:"is_premium"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type ProfileResponse struct {
	UserResponse
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	PostsCount     int64 `json:"posts_count"`
	IsFollowed     bool  `json:"is_followed"`
}

func UserToResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Phone:      user.Phone,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		Bio:        user.Bio,
		Status:     string(user.Status),
		Location:   user.Location,
		Theme:      string(user.Theme),
		IsPremium:  user.IsPremium,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToResponse(u))
	}
	return out
}
