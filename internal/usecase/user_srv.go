package usecase

import (
	"context"
	"fmt"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/internal/dto/response"
	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// presenceTTL bounds how stale an online flag can get when a client
// dies without reporting offline.
const presenceTTL = 5 * time.Minute

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*response.ProfileResponse, error)
	Search(ctx context.Context, query string, page, perPage int) (*response.PaginatedResponse[*response.UserResponse], error)
	GetSuggested(ctx context.Context, userID uuid.UUID) ([]*response.UserResponse, error)
	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error
	GetFollowers(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.UserResponse, error)
	GetFollowing(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.UserResponse, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, req *request.UpdateStatusRequest) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

type userService struct {
	repo *repository.Repository
	rdb  *redis.Client
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, rdb *redis.Client, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		rdb:  rdb,
		log:  log,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return response.UserToResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("UpdateProfile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Theme != nil {
		user.Theme = entity.ThemePreference(*req.Theme)
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return response.UserToResponse(user), nil
}

func (s *userService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	followers, err := s.repo.Subscription.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.repo.Subscription.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.Post.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	followed := false
	if viewerID != userID {
		sub, err := s.repo.Subscription.Find(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		followed = sub != nil
	}

	return &response.ProfileResponse{
		UserResponse:   *response.UserToResponse(user),
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     posts,
		IsFollowed:     followed,
	}, nil
}

func (s *userService) Search(ctx context.Context, query string, page, perPage int) (*response.PaginatedResponse[*response.UserResponse], error) {
	users, err := s.repo.User.Search(ctx, query, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	total, err := s.repo.User.CountSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), page, perPage, total), nil
}

func (s *userService) GetSuggested(ctx context.Context, userID uuid.UUID) ([]*response.UserResponse, error) {
	users, err := s.repo.User.FindSuggested(ctx, userID, 10)
	if err != nil {
		return nil, fmt.Errorf("find suggested users: %w", err)
	}
	return response.UsersToResponse(users), nil
}

func (s *userService) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}

	target, err := s.repo.User.FindByID(ctx, followedID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if target == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	existing, err := s.repo.Subscription.Find(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: already following", ErrConflict)
	}

	sub := &entity.Subscription{
		ID:         uuid.New(),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Subscription.Create(ctx, sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	s.notify(ctx, followedID, entity.NotificationFollow, "started following you", &followerID, "user")

	return nil
}

func (s *userService) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	existing, err := s.repo.Subscription.Find(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: subscription", ErrNotFound)
	}

	return s.repo.Subscription.Delete(ctx, followerID, followedID)
}

func (s *userService) GetFollowers(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.UserResponse, error) {
	users, err := s.repo.Subscription.FindFollowers(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, fmt.Errorf("find followers: %w", err)
	}
	return response.UsersToResponse(users), nil
}

func (s *userService) GetFollowing(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.UserResponse, error) {
	users, err := s.repo.Subscription.FindFollowing(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, fmt.Errorf("find following: %w", err)
	}
	return response.UsersToResponse(users), nil
}

// UpdateStatus accepts "do_not_disturb" as a legacy alias for "dnd".
func (s *userService) UpdateStatus(ctx context.Context, userID uuid.UUID, req *request.UpdateStatusRequest) error {
	if req.Status == "do_not_disturb" {
		req.Status = string(entity.StatusDND)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	return s.repo.User.UpdateStatus(ctx, userID, entity.UserStatus(req.Status))
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: wrong password", ErrForbidden)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.UpdatedAt = time.Now()
	return s.repo.User.Update(ctx, user)
}

func presenceKey(userID uuid.UUID) string {
	return "presence:" + userID.String()
}

func (s *userService) SetOnline(ctx context.Context, userID uuid.UUID, online bool) error {
	if !online {
		if err := s.rdb.Del(ctx, presenceKey(userID)).Err(); err != nil {
			return fmt.Errorf("clear presence: %w", err)
		}
		return nil
	}

	if err := s.rdb.Set(ctx, presenceKey(userID), "1", presenceTTL).Err(); err != nil {
		return fmt.Errorf("set presence: %w", err)
	}
	return nil
}

func (s *userService) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check presence: %w", err)
	}
	return n > 0, nil
}

func (s *userService) notify(ctx context.Context, userID uuid.UUID, kind entity.NotificationType, content string, refID *uuid.UUID, refType string) {
	n := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:        userID,
		Type:          kind,
		Content:       content,
		ReferenceID:   refID,
		ReferenceType: &refType,
		IsRead:        false,
	}

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.log.Warn("Failed to create notification",
			zap.Error(err), zap.String("type", string(kind)))
	}
}
