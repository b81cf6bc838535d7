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

type CommentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	AdjustLikes(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, tx pgx.Tx, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, parent_id, content,
		                      likes_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.ParentID,
		comment.Content,
		comment.LikesCount,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("post_id", comment.PostID.String()),
		)
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := `
		SELECT id, post_id, user_id, parent_id, content, likes_count, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var comment entity.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.ParentID,
		&comment.Content,
		&comment.LikesCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", id.String()))
		return nil, fmt.Errorf("find comment %s: %w", id.String(), err)
	}

	return &comment, nil
}

// FindByPost returns comments oldest first, as the original thread order.
func (r *commentRepository) FindByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	query := `
		SELECT id, post_id, user_id, parent_id, content, likes_count, created_at, updated_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, postID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query comments",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return nil, fmt.Errorf("query comments for post %s: %w", postID.String(), err)
	}
	defer rows.Close()

	var comments []*entity.Comment
	for rows.Next() {
		var comment entity.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.ParentID,
			&comment.Content,
			&comment.LikesCount,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count comments", zap.Error(err))
		return 0, fmt.Errorf("count comments for post %s: %w", postID.String(), err)
	}
	return count, nil
}

func (r *commentRepository) AdjustLikes(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) error {
	query := `
		UPDATE comments
		SET likes_count = GREATEST(likes_count + $2, 0), updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to adjust comment likes",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return fmt.Errorf("adjust likes for comment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s not found", id.String())
	}

	return nil
}

func (r *commentRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", id.String()))
		return fmt.Errorf("delete comment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s not found", id.String())
	}

	return nil
}
