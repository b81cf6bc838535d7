package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/internal/dto/response"
	"opentalk/pkg/database"
	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

type PostService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.CreatePostRequest) (*response.PostResponse, error)
	Get(ctx context.Context, viewerID, postID uuid.UUID) (*response.PostResponse, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Repost(ctx context.Context, userID, postID uuid.UUID, req *request.RepostRequest) (*response.PostResponse, error)
	Feed(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.PostResponse, error)
	ByUser(ctx context.Context, viewerID, userID uuid.UUID, page, perPage int) ([]*response.PostResponse, error)
	ByHashtag(ctx context.Context, viewerID uuid.UUID, tag string, page, perPage int) ([]*response.PostResponse, error)
	Like(ctx context.Context, userID, postID uuid.UUID) error
	Unlike(ctx context.Context, userID, postID uuid.UUID) error
	Comment(ctx context.Context, userID, postID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	Comments(ctx context.Context, viewerID, postID uuid.UUID, page, perPage int) ([]*response.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
	LikeComment(ctx context.Context, userID, commentID uuid.UUID) error
	UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) error
	Trends(ctx context.Context, limit int) ([]*response.TrendResponse, error)
	SearchHashtags(ctx context.Context, prefix string, limit int) ([]*response.HashtagResponse, error)
}

type postService struct {
	repo *repository.Repository
	db   database.PgxIface
	log  *zap.Logger
}

func NewPostService(repo *repository.Repository, db database.PgxIface, log *zap.Logger) PostService {
	return &postService{
		repo: repo,
		db:   db,
		log:  log,
	}
}

// Create stores the post and its extracted hashtags in one transaction
// so hashtag counters never drift from the posts that reference them.
func (s *postService) Create(ctx context.Context, userID uuid.UUID, req *request.CreatePostRequest) (*response.PostResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create post validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	post := &entity.Post{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userID,
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Post.Create(ctx, tx, post); err != nil {
		return nil, err
	}

	for _, tag := range extractHashtags(req.Content) {
		hashtag, err := s.repo.Hashtag.Upsert(ctx, tx, tag)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Hashtag.LinkPost(ctx, tx, post.ID, hashtag.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit post: %w", err)
	}

	s.log.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("user_id", userID.String()))

	author, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return response.PostToResponse(post, author, false), nil
}

func extractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	var tags []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func (s *postService) Get(ctx context.Context, viewerID, postID uuid.UUID) (*response.PostResponse, error) {
	post, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}

	return s.toPostResponse(ctx, viewerID, post)
}

func (s *postService) toPostResponse(ctx context.Context, viewerID uuid.UUID, post *entity.Post) (*response.PostResponse, error) {
	author, err := s.repo.User.FindByID(ctx, post.UserID)
	if err != nil {
		return nil, err
	}

	liked := false
	if viewerID != uuid.Nil {
		like, err := s.repo.Like.Find(ctx, viewerID, entity.LikeTargetPost, post.ID)
		if err != nil {
			return nil, err
		}
		liked = like != nil
	}

	return response.PostToResponse(post, author, liked), nil
}

func (s *postService) toPostResponses(ctx context.Context, viewerID uuid.UUID, posts []*entity.Post) ([]*response.PostResponse, error) {
	out := make([]*response.PostResponse, 0, len(posts))
	for _, post := range posts {
		resp, err := s.toPostResponse(ctx, viewerID, post)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *postService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("%w: post", ErrNotFound)
	}
	if post.UserID != userID {
		return fmt.Errorf("%w: not the author", ErrForbidden)
	}

	return s.repo.Post.Delete(ctx, postID)
}

func (s *postService) Repost(ctx context.Context, userID, postID uuid.UUID, req *request.RepostRequest) (*response.PostResponse, error) {
	original, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}

	content := ""
	if req != nil && req.Comment != nil {
		content = *req.Comment
	}

	now := time.Now()
	repost := &entity.Post{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:         userID,
		Content:        content,
		IsRepost:       true,
		OriginalPostID: &original.ID,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Post.Create(ctx, tx, repost); err != nil {
		return nil, err
	}

	if err := s.repo.Post.AdjustCounter(ctx, tx, original.ID, "reposts_count", 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit repost: %w", err)
	}

	if original.UserID != userID {
		s.notify(ctx, original.UserID, entity.NotificationRepost, "reposted your post", &original.ID, "post")
	}

	return s.toPostResponse(ctx, userID, repost)
}

func (s *postService) Feed(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.PostResponse, error) {
	posts, err := s.repo.Post.FindFeed(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}
	return s.toPostResponses(ctx, userID, posts)
}

func (s *postService) ByUser(ctx context.Context, viewerID, userID uuid.UUID, page, perPage int) ([]*response.PostResponse, error) {
	posts, err := s.repo.Post.FindByUser(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}
	return s.toPostResponses(ctx, viewerID, posts)
}

func (s *postService) ByHashtag(ctx context.Context, viewerID uuid.UUID, tag string, page, perPage int) ([]*response.PostResponse, error) {
	posts, err := s.repo.Post.FindByHashtag(ctx, strings.ToLower(strings.TrimPrefix(tag, "#")), perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}
	return s.toPostResponses(ctx, viewerID, posts)
}

func (s *postService) Like(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("%w: post", ErrNotFound)
	}

	existing, err := s.repo.Like.Find(ctx, userID, entity.LikeTargetPost, postID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: already liked", ErrConflict)
	}

	like := &entity.Like{
		ID:          uuid.New(),
		UserID:      userID,
		ContentType: entity.LikeTargetPost,
		ContentID:   postID,
		CreatedAt:   time.Now(),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Like.Create(ctx, tx, like); err != nil {
		return err
	}
	if err := s.repo.Post.AdjustCounter(ctx, tx, postID, "likes_count", 1); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit like: %w", err)
	}

	if post.UserID != userID {
		s.notify(ctx, post.UserID, entity.NotificationLike, "liked your post", &postID, "post")
	}

	return nil
}

func (s *postService) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	existing, err := s.repo.Like.Find(ctx, userID, entity.LikeTargetPost, postID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: like", ErrNotFound)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Like.Delete(ctx, tx, userID, entity.LikeTargetPost, postID); err != nil {
		return err
	}
	if err := s.repo.Post.AdjustCounter(ctx, tx, postID, "likes_count", -1); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *postService) Comment(ctx context.Context, userID, postID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	post, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		parsed, err := utils.ParseUUID(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed parent_id", ErrValidation)
		}
		parent, err := s.repo.Comment.FindByID(ctx, parsed)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment", ErrNotFound)
		}
		parentID = &parsed
	}

	now := time.Now()
	comment := &entity.Comment{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Content:  req.Content,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Comment.Create(ctx, tx, comment); err != nil {
		return nil, err
	}
	if err := s.repo.Post.AdjustCounter(ctx, tx, postID, "comments_count", 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit comment: %w", err)
	}

	if post.UserID != userID {
		s.notify(ctx, post.UserID, entity.NotificationComment, "commented on your post", &postID, "post")
	}

	author, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return response.CommentToResponse(comment, author, false), nil
}

func (s *postService) Comments(ctx context.Context, viewerID, postID uuid.UUID, page, perPage int) ([]*response.CommentResponse, error) {
	comments, err := s.repo.Comment.FindByPost(ctx, postID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}

	out := make([]*response.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		author, err := s.repo.User.FindByID(ctx, comment.UserID)
		if err != nil {
			return nil, err
		}

		liked := false
		if viewerID != uuid.Nil {
			like, err := s.repo.Like.Find(ctx, viewerID, entity.LikeTargetComment, comment.ID)
			if err != nil {
				return nil, err
			}
			liked = like != nil
		}

		out = append(out, response.CommentToResponse(comment, author, liked))
	}
	return out, nil
}

func (s *postService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("%w: comment", ErrNotFound)
	}
	if comment.UserID != userID {
		return fmt.Errorf("%w: not the author", ErrForbidden)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Comment.Delete(ctx, tx, commentID); err != nil {
		return err
	}
	if err := s.repo.Post.AdjustCounter(ctx, tx, comment.PostID, "comments_count", -1); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *postService) LikeComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("%w: comment", ErrNotFound)
	}

	existing, err := s.repo.Like.Find(ctx, userID, entity.LikeTargetComment, commentID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: already liked", ErrConflict)
	}

	like := &entity.Like{
		ID:          uuid.New(),
		UserID:      userID,
		ContentType: entity.LikeTargetComment,
		ContentID:   commentID,
		CreatedAt:   time.Now(),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Like.Create(ctx, tx, like); err != nil {
		return err
	}
	if err := s.repo.Comment.AdjustLikes(ctx, tx, commentID, 1); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *postService) UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) error {
	existing, err := s.repo.Like.Find(ctx, userID, entity.LikeTargetComment, commentID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: like", ErrNotFound)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Like.Delete(ctx, tx, userID, entity.LikeTargetComment, commentID); err != nil {
		return err
	}
	if err := s.repo.Comment.AdjustLikes(ctx, tx, commentID, -1); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *postService) Trends(ctx context.Context, limit int) ([]*response.TrendResponse, error) {
	trends, err := s.repo.Hashtag.FindTrends(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*response.TrendResponse, 0, len(trends))
	for _, t := range trends {
		out = append(out, response.TrendToResponse(t))
	}
	return out, nil
}

func (s *postService) SearchHashtags(ctx context.Context, prefix string, limit int) ([]*response.HashtagResponse, error) {
	tags, err := s.repo.Hashtag.Search(ctx, strings.ToLower(strings.TrimPrefix(prefix, "#")), limit)
	if err != nil {
		return nil, err
	}

	out := make([]*response.HashtagResponse, 0, len(tags))
	for _, h := range tags {
		out = append(out, response.HashtagToResponse(h))
	}
	return out, nil
}

func (s *postService) notify(ctx context.Context, userID uuid.UUID, kind entity.NotificationType, content string, refID *uuid.UUID, refType string) {
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
