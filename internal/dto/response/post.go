package response

import (
	"time"

	"opentalk/internal/data/entity"
)

type PostResponse struct {
	ID             string        `json:"id"`
	Author         *UserResponse `json:"author,omitempty"`
	Content        string        `json:"content"`
	MediaURLs      []string      `json:"media_urls,omitempty"`
	LikesCount     int           `json:"likes_count"`
	RepostsCount   int           `json:"reposts_count"`
	CommentsCount  int           `json:"comments_count"`
	IsRepost       bool          `json:"is_repost"`
	OriginalPostID *string       `json:"original_post_id,omitempty"`
	IsLiked        bool          `json:"is_liked"`
	CreatedAt      time.Time     `json:"created_at"`
}

type CommentResponse struct {
	ID         string        `json:"id"`
	PostID     string        `json:"post_id"`
	Author     *UserResponse `json:"author,omitempty"`
	ParentID   *string       `json:"parent_id,omitempty"`
	Content    string        `json:"content"`
	LikesCount int           `json:"likes_count"`
	IsLiked    bool          `json:"is_liked"`
	CreatedAt  time.Time     `json:"created_at"`
}

type HashtagResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"post_count"`
}

type TrendResponse struct {
	Name       string  `json:"name"`
	TrendScore float64 `json:"trend_score"`
	Category   string  `json:"category,omitempty"`
	Location   string  `json:"location,omitempty"`
}

func PostToResponse(post *entity.Post, author *entity.User, liked bool) *PostResponse {
	resp := &PostResponse{
		ID:            post.ID.String(),
		Content:       post.Content,
		MediaURLs:     post.MediaURLs,
		LikesCount:    post.LikesCount,
		RepostsCount:  post.RepostsCount,
		CommentsCount: post.CommentsCount,
		IsRepost:      post.IsRepost,
		IsLiked:       liked,
		CreatedAt:     post.CreatedAt,
	}

	if author != nil {
		resp.Author = UserToResponse(author)
	}
	if post.OriginalPostID != nil {
		id := post.OriginalPostID.String()
		resp.OriginalPostID = &id
	}

	return resp
}

func CommentToResponse(comment *entity.Comment, author *entity.User, liked bool) *CommentResponse {
	resp := &CommentResponse{
		ID:         comment.ID.String(),
		PostID:     comment.PostID.String(),
		Content:    comment.Content,
		LikesCount: comment.LikesCount,
		IsLiked:    liked,
		CreatedAt:  comment.CreatedAt,
	}

	if author != nil {
		resp.Author = UserToResponse(author)
	}
	if comment.ParentID != nil {
		id := comment.ParentID.String()
		resp.ParentID = &id
	}

	return resp
}

func HashtagToResponse(h *entity.Hashtag) *HashtagResponse {
	return &HashtagResponse{
		ID:        h.ID.String(),
		Name:      h.Name,
		PostCount: h.PostCount,
	}
}

func TrendToResponse(t *entity.Trend) *TrendResponse {
	return &TrendResponse{
		Name:       t.Name,
		TrendScore: t.TrendScore,
		Category:   t.Category,
		Location:   t.Location,
	}
}
