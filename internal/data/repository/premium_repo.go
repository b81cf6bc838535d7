package repository

import (
	"context"
	"fmt"

	"opentalk/internal/data/entity"
	"opentalk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PremiumRepository interface {
	Create(ctx context.Context, sub *entity.PremiumSubscription) error
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.PremiumSubscription, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type premiumRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPremiumRepository(db database.PgxIface, log *zap.Logger) PremiumRepository {
	return &premiumRepository{
		db:  db,
		log: log.With(zap.String("repository", "premium")),
	}
}

func (r *premiumRepository) Create(ctx context.Context, sub *entity.PremiumSubscription) error {
	query := `
		INSERT INTO premium_subscriptions (id, user_id, plan_type, started_at,
		                                   expires_at, is_active, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.UserID,
		sub.PlanType,
		sub.StartedAt,
		sub.ExpiresAt,
		sub.IsActive,
		sub.PaymentID,
	)

	if err != nil {
		r.log.Error("Failed to create premium subscription",
			zap.Error(err),
			zap.String("user_id", sub.UserID.String()),
		)
		return fmt.Errorf("create premium subscription: %w", err)
	}

	return nil
}

func (r *premiumRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.PremiumSubscription, error) {
	query := `
		SELECT id, user_id, plan_type, started_at, expires_at, is_active, payment_id
		FROM premium_subscriptions
		WHERE user_id = $1 AND is_active = true AND expires_at > NOW()
		ORDER BY started_at DESC
		LIMIT 1
	`

	var sub entity.PremiumSubscription
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanType,
		&sub.StartedAt,
		&sub.ExpiresAt,
		&sub.IsActive,
		&sub.PaymentID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active premium subscription", zap.Error(err))
		return nil, fmt.Errorf("find premium subscription for %s: %w", userID.String(), err)
	}

	return &sub, nil
}

func (r *premiumRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE premium_subscriptions
		SET is_active = false
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate premium subscription",
			zap.Error(err),
			zap.String("subscription_id", id.String()),
		)
		return fmt.Errorf("deactivate premium subscription %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("premium subscription %s not found", id.String())
	}

	return nil
}
