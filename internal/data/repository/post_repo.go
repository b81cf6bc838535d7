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

const postColumns = `id, user_id, content, media_urls, likes_count, reposts_count,
	       comments_count, is_repost, original_post_id, created_at, updated_at`

type PostRepository interface {
	Create(ctx context.Context, tx pgx.Tx, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Post, error)
	FindFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Post, error)
	FindByHashtag(ctx context.Context, hashtag string, limit, offset int) ([]*entity.Post, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	AdjustCounter(ctx context.Context, tx pgx.Tx, id uuid.UUID, column string, delta int) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostRepository(db database.PgxIface, log *zap.Logger) PostRepository {
	return &postRepository{
		db:  db,
		log: log.With(zap.String("repository", "post")),
	}
}

// Create inserts within the caller's transaction so hashtag links land
// atomically with the post.
func (r *postRepository) Create(ctx context.Context, tx pgx.Tx, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, user_id, content, media_urls, likes_count,
		                   reposts_count, comments_count, is_repost,
		                   original_post_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Content,
		post.MediaURLs,
		post.LikesCount,
		post.RepostsCount,
		post.CommentsCount,
		post.IsRepost,
		post.OriginalPostID,
		post.CreatedAt,
		post.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create post",
			zap.Error(err),
			zap.String("user_id", post.UserID.String()),
		)
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1
	`

	var post entity.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.MediaURLs,
		&post.LikesCount,
		&post.RepostsCount,
		&post.CommentsCount,
		&post.IsRepost,
		&post.OriginalPostID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post", zap.Error(err), zap.String("post_id", id.String()))
		return nil, fmt.Errorf("find post %s: %w", id.String(), err)
	}

	return &post, nil
}

func (r *postRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryPosts(ctx, query, userID, limit, offset)
}

// FindFeed returns posts by the user and everyone they follow.
func (r *postRepository) FindFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		   OR user_id IN (
		       SELECT followed_id FROM subscriptions WHERE follower_id = $1
		   )
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryPosts(ctx, query, userID, limit, offset)
}

func (r *postRepository) FindByHashtag(ctx context.Context, hashtag string, limit, offset int) ([]*entity.Post, error) {
	query := `
		SELECT ` + qualifiedPostColumns + `
		FROM posts
		JOIN post_hashtags ph ON ph.post_id = posts.id
		JOIN hashtags h ON h.id = ph.hashtag_id
		WHERE h.name = $1
		ORDER BY posts.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, hashtag, limit, offset)
	if err != nil {
		r.log.Error("Failed to find posts by hashtag",
			zap.Error(err),
			zap.String("hashtag", hashtag),
		)
		return nil, fmt.Errorf("find posts by hashtag %s: %w", hashtag, err)
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

const qualifiedPostColumns = `posts.id, posts.user_id, posts.content, posts.media_urls,
	       posts.likes_count, posts.reposts_count, posts.comments_count,
	       posts.is_repost, posts.original_post_id, posts.created_at, posts.updated_at`

func (r *postRepository) queryPosts(ctx context.Context, query string, userID uuid.UUID, limit, offset int) ([]*entity.Post, error) {
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query posts",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("query posts for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

func (r *postRepository) scanPosts(rows pgx.Rows) ([]*entity.Post, error) {
	var posts []*entity.Post
	for rows.Next() {
		var post entity.Post
		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Content,
			&post.MediaURLs,
			&post.LikesCount,
			&post.RepostsCount,
			&post.CommentsCount,
			&post.IsRepost,
			&post.OriginalPostID,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan post row", zap.Error(err))
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts rows: %w", err)
	}

	return posts, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count posts", zap.Error(err))
		return 0, fmt.Errorf("count posts for %s: %w", userID.String(), err)
	}
	return count, nil
}

// AdjustCounter bumps a denormalized counter column. Only the known
// counter columns are accepted.
func (r *postRepository) AdjustCounter(ctx context.Context, tx pgx.Tx, id uuid.UUID, column string, delta int) error {
	switch column {
	case "likes_count", "reposts_count", "comments_count":
	default:
		return fmt.Errorf("unknown post counter column %q", column)
	}

	query := fmt.Sprintf(`
		UPDATE posts
		SET %s = GREATEST(%s + $2, 0), updated_at = NOW()
		WHERE id = $1
	`, column, column)

	result, err := tx.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to adjust post counter",
			zap.Error(err),
			zap.String("post_id", id.String()),
			zap.String("column", column),
		)
		return fmt.Errorf("adjust %s for post %s: %w", column, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", id.String())
	}

	return nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	query := `
		UPDATE posts
		SET content = $2, media_urls = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, post.ID, post.Content, post.MediaURLs, post.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update post", zap.Error(err), zap.String("post_id", post.ID.String()))
		return fmt.Errorf("update post %s: %w", post.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", post.ID.String())
	}

	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete post", zap.Error(err), zap.String("post_id", id.String()))
		return fmt.Errorf("delete post %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", id.String())
	}

	return nil
}
