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

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	Find(ctx context.Context, followerID, followedID uuid.UUID) (*entity.Subscription, error)
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
	FindFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.User, error)
	FindFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.User, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type subscriptionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSubscriptionRepository(db database.PgxIface, log *zap.Logger) SubscriptionRepository {
	return &subscriptionRepository{
		db:  db,
		log: log.With(zap.String("repository", "subscription")),
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, follower_id, followed_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, sub.ID, sub.FollowerID, sub.FollowedID, sub.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create subscription",
			zap.Error(err),
			zap.String("follower_id", sub.FollowerID.String()),
			zap.String("followed_id", sub.FollowedID.String()),
		)
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) Find(ctx context.Context, followerID, followedID uuid.UUID) (*entity.Subscription, error) {
	query := `
		SELECT id, follower_id, followed_id, created_at
		FROM subscriptions
		WHERE follower_id = $1 AND followed_id = $2
	`

	var sub entity.Subscription
	err := r.db.QueryRow(ctx, query, followerID, followedID).Scan(
		&sub.ID,
		&sub.FollowerID,
		&sub.FollowedID,
		&sub.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find subscription", zap.Error(err))
		return nil, fmt.Errorf("find subscription: %w", err)
	}

	return &sub, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, followerID, followedID uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE follower_id = $1 AND followed_id = $2`

	result, err := r.db.Exec(ctx, query, followerID, followedID)
	if err != nil {
		r.log.Error("Failed to delete subscription", zap.Error(err))
		return fmt.Errorf("delete subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found")
	}

	return nil
}

func (r *subscriptionRepository) FindFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumnsQualified + `
		FROM users
		JOIN subscriptions s ON s.follower_id = users.id
		WHERE s.followed_id = $1 AND users.deleted_at IS NULL
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryUsers(ctx, query, userID, limit, offset)
}

func (r *subscriptionRepository) FindFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumnsQualified + `
		FROM users
		JOIN subscriptions s ON s.followed_id = users.id
		WHERE s.follower_id = $1 AND users.deleted_at IS NULL
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryUsers(ctx, query, userID, limit, offset)
}

func (r *subscriptionRepository) queryUsers(ctx context.Context, query string, userID uuid.UUID, limit, offset int) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query subscription users",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("query subscription users for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Phone,
			&user.FullName,
			&user.Avatar,
			&user.Bio,
			&user.Status,
			&user.Location,
			&user.Theme,
			&user.IsPremium,
			&user.IsVerified,
			&user.LastLogin,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.DeletedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan subscription user row", zap.Error(err))
			return nil, fmt.Errorf("scan subscription user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription users: %w", err)
	}

	return users, nil
}

func (r *subscriptionRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE followed_id = $1`, userID)
}

func (r *subscriptionRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE follower_id = $1`, userID)
}

func (r *subscriptionRepository) count(ctx context.Context, query string, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count subscriptions", zap.Error(err))
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}
