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

type HashtagRepository interface {
	Upsert(ctx context.Context, tx pgx.Tx, name string) (*entity.Hashtag, error)
	LinkPost(ctx context.Context, tx pgx.Tx, postID, hashtagID uuid.UUID) error
	FindByName(ctx context.Context, name string) (*entity.Hashtag, error)
	Search(ctx context.Context, prefix string, limit int) ([]*entity.Hashtag, error)
	FindTrends(ctx context.Context, limit int) ([]*entity.Trend, error)
}

type hashtagRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHashtagRepository(db database.PgxIface, log *zap.Logger) HashtagRepository {
	return &hashtagRepository{
		db:  db,
		log: log.With(zap.String("repository", "hashtag")),
	}
}

// Upsert inserts the hashtag or bumps its post counter, returning the row.
// Runs inside the post-creation transaction.
func (r *hashtagRepository) Upsert(ctx context.Context, tx pgx.Tx, name string) (*entity.Hashtag, error) {
	query := `
		INSERT INTO hashtags (id, name, post_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (name)
		DO UPDATE SET post_count = hashtags.post_count + 1
		RETURNING id, name, post_count
	`

	var tag entity.Hashtag
	err := tx.QueryRow(ctx, query, uuid.New(), name).Scan(&tag.ID, &tag.Name, &tag.PostCount)
	if err != nil {
		r.log.Error("Failed to upsert hashtag", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("upsert hashtag %s: %w", name, err)
	}

	return &tag, nil
}

func (r *hashtagRepository) LinkPost(ctx context.Context, tx pgx.Tx, postID, hashtagID uuid.UUID) error {
	query := `
		INSERT INTO post_hashtags (post_id, hashtag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := tx.Exec(ctx, query, postID, hashtagID)
	if err != nil {
		r.log.Error("Failed to link post hashtag",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return fmt.Errorf("link post %s to hashtag: %w", postID.String(), err)
	}

	return nil
}

func (r *hashtagRepository) FindByName(ctx context.Context, name string) (*entity.Hashtag, error) {
	query := `SELECT id, name, post_count FROM hashtags WHERE name = $1`

	var tag entity.Hashtag
	err := r.db.QueryRow(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.PostCount)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hashtag", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("find hashtag %s: %w", name, err)
	}

	return &tag, nil
}

func (r *hashtagRepository) Search(ctx context.Context, prefix string, limit int) ([]*entity.Hashtag, error) {
	query := `
		SELECT id, name, post_count
		FROM hashtags
		WHERE name ILIKE $1 || '%'
		ORDER BY post_count DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, prefix, limit)
	if err != nil {
		r.log.Error("Failed to search hashtags", zap.Error(err), zap.String("prefix", prefix))
		return nil, fmt.Errorf("search hashtags %q: %w", prefix, err)
	}
	defer rows.Close()

	var tags []*entity.Hashtag
	for rows.Next() {
		var tag entity.Hashtag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.PostCount); err != nil {
			return nil, fmt.Errorf("scan hashtag row: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hashtags rows: %w", err)
	}

	return tags, nil
}

func (r *hashtagRepository) FindTrends(ctx context.Context, limit int) ([]*entity.Trend, error) {
	query := `
		SELECT t.id, t.hashtag_id, h.name, t.trend_score, t.category, t.location, t.created_at
		FROM trends t
		JOIN hashtags h ON h.id = t.hashtag_id
		ORDER BY t.trend_score DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to query trends", zap.Error(err))
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	var trends []*entity.Trend
	for rows.Next() {
		var trend entity.Trend
		err := rows.Scan(
			&trend.ID,
			&trend.HashtagID,
			&trend.Name,
			&trend.TrendScore,
			&trend.Category,
			&trend.Location,
			&trend.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		trends = append(trends, &trend)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trends rows: %w", err)
	}

	return trends, nil
}
