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

type LikeRepository interface {
	Create(ctx context.Context, tx pgx.Tx, like *entity.Like) error
	Find(ctx context.Context, userID uuid.UUID, target entity.LikeTarget, contentID uuid.UUID) (*entity.Like, error)
	Delete(ctx context.Context, tx pgx.Tx, userID uuid.UUID, target entity.LikeTarget, contentID uuid.UUID) error
}

type likeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLikeRepository(db database.PgxIface, log *zap.Logger) LikeRepository {
	return &likeRepository{
		db:  db,
		log: log.With(zap.String("repository", "like")),
	}
}

func (r *likeRepository) Create(ctx context.Context, tx pgx.Tx, like *entity.Like) error {
	query := `
		INSERT INTO likes (id, user_id, content_type, content_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query,
		like.ID,
		like.UserID,
		like.ContentType,
		like.ContentID,
		like.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create like",
			zap.Error(err),
			zap.String("user_id", like.UserID.String()),
			zap.String("content_type", string(like.ContentType)),
		)
		return fmt.Errorf("create like: %w", err)
	}

	return nil
}

func (r *likeRepository) Find(ctx context.Context, userID uuid.UUID, target entity.LikeTarget, contentID uuid.UUID) (*entity.Like, error) {
	query := `
		SELECT id, user_id, content_type, content_id, created_at
		FROM likes
		WHERE user_id = $1 AND content_type = $2 AND content_id = $3
	`

	var like entity.Like
	err := r.db.QueryRow(ctx, query, userID, target, contentID).Scan(
		&like.ID,
		&like.UserID,
		&like.ContentType,
		&like.ContentID,
		&like.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find like", zap.Error(err))
		return nil, fmt.Errorf("find like: %w", err)
	}

	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, tx pgx.Tx, userID uuid.UUID, target entity.LikeTarget, contentID uuid.UUID) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND content_type = $2 AND content_id = $3`

	result, err := tx.Exec(ctx, query, userID, target, contentID)
	if err != nil {
		r.log.Error("Failed to delete like", zap.Error(err))
		return fmt.Errorf("delete like: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("like not found")
	}

	return nil
}
