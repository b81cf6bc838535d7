package usecase

import (
	"context"
	"testing"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPostServiceMock(t *testing.T) (PostService, pgxmock.PgxPoolIface) {
	t.Helper()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := repository.NewRepository(mockPool, zap.NewNop())
	return NewPostService(repo, mockPool, zap.NewNop()), mockPool
}

func postRows(postID, authorID uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "user_id", "content", "media_urls", "likes_count", "reposts_count",
		"comments_count", "is_repost", "original_post_id", "created_at", "updated_at",
	}).AddRow(postID, authorID, "hello", []string{}, 0, 0, 0, false, nil, now, now)
}

func likeColumns() []string {
	return []string{"id", "user_id", "content_type", "content_id", "created_at"}
}

func TestLikePost_RowAndCounterCommitTogether(t *testing.T) {
	srv, mockPool := newPostServiceMock(t)
	viewerID := uuid.New()
	authorID := uuid.New()
	postID := uuid.New()

	mockPool.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs(postID).
		WillReturnRows(postRows(postID, authorID))
	mockPool.ExpectQuery("SELECT (.+) FROM likes").
		WithArgs(viewerID, entity.LikeTargetPost, postID).
		WillReturnRows(pgxmock.NewRows(likeColumns()))
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO likes").
		WithArgs(pgxmock.AnyArg(), viewerID, entity.LikeTargetPost, postID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("UPDATE posts").
		WithArgs(postID, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()
	mockPool.ExpectExec("INSERT INTO notifications").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := srv.Like(context.Background(), viewerID, postID)
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLikePost_CounterFailureRollsBack(t *testing.T) {
	srv, mockPool := newPostServiceMock(t)
	viewerID := uuid.New()
	authorID := uuid.New()
	postID := uuid.New()

	mockPool.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs(postID).
		WillReturnRows(postRows(postID, authorID))
	mockPool.ExpectQuery("SELECT (.+) FROM likes").
		WithArgs(viewerID, entity.LikeTargetPost, postID).
		WillReturnRows(pgxmock.NewRows(likeColumns()))
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO likes").
		WithArgs(pgxmock.AnyArg(), viewerID, entity.LikeTargetPost, postID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("UPDATE posts").
		WithArgs(postID, 1).
		WillReturnError(assert.AnError)
	mockPool.ExpectRollback()

	err := srv.Like(context.Background(), viewerID, postID)
	assert.Error(t, err, "a failed counter update must fail the whole like")
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLikePost_Duplicate(t *testing.T) {
	srv, mockPool := newPostServiceMock(t)
	viewerID := uuid.New()
	authorID := uuid.New()
	postID := uuid.New()

	mockPool.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs(postID).
		WillReturnRows(postRows(postID, authorID))
	mockPool.ExpectQuery("SELECT (.+) FROM likes").
		WithArgs(viewerID, entity.LikeTargetPost, postID).
		WillReturnRows(pgxmock.NewRows(likeColumns()).
			AddRow(uuid.New(), viewerID, entity.LikeTargetPost, postID, time.Now()))

	err := srv.Like(context.Background(), viewerID, postID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
