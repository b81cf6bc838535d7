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
	"go.uber.org/zap"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Subscribe(ctx context.Context, userID uuid.UUID, req *request.SubscribePremiumRequest) (*response.PremiumResponse, error)
	PremiumStatus(ctx context.Context, userID uuid.UUID) (*response.PremiumResponse, error)
	CancelPremium(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.NotificationResponse, error) {
	notifications, err := s.repo.Notification.FindByUser(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}

	out := make([]*response.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, response.NotificationToResponse(n))
	}
	return out, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.repo.Notification.MarkAsRead(ctx, notificationID, userID); err != nil {
		return fmt.Errorf("%w: notification", ErrNotFound)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Notification.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Subscribe(ctx context.Context, userID uuid.UUID, req *request.SubscribePremiumRequest) (*response.PremiumResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Premium.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already subscribed", ErrConflict)
	}

	now := time.Now()
	plan := entity.PremiumPlan(req.PlanType)

	expiry := now.AddDate(0, 1, 0)
	if plan == entity.PlanYearly {
		expiry = now.AddDate(1, 0, 0)
	}

	sub := &entity.PremiumSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanType:  plan,
		StartedAt: now,
		ExpiresAt: expiry,
		IsActive:  true,
		PaymentID: req.PaymentID,
	}

	if err := s.repo.Premium.Create(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.repo.User.SetPremium(ctx, userID, true); err != nil {
		return nil, err
	}

	s.log.Info("Premium subscription started",
		zap.String("user_id", userID.String()),
		zap.String("plan", string(plan)))

	return response.PremiumToResponse(sub), nil
}

func (s *notificationService) PremiumStatus(ctx context.Context, userID uuid.UUID) (*response.PremiumResponse, error) {
	sub, err := s.repo.Premium.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: no active subscription", ErrNotFound)
	}
	return response.PremiumToResponse(sub), nil
}

func (s *notificationService) CancelPremium(ctx context.Context, userID uuid.UUID) error {
	sub, err := s.repo.Premium.FindActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("%w: no active subscription", ErrNotFound)
	}

	if err := s.repo.Premium.Deactivate(ctx, sub.ID); err != nil {
		return err
	}

	return s.repo.User.SetPremium(ctx, userID, false)
}
