package adaptor

import (
	"encoding/json"
	"net/http"

	"opentalk/internal/dto/request"
	"opentalk/internal/usecase"
	"opentalk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PostHandler struct {
	service usecase.PostService
	log     *zap.Logger
}

func NewPostHandler(service usecase.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/posts (protected)
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	post, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create post")
		return
	}

	utils.ResponseCreated(w, "Post created", post)
}

// Get handles GET /api/posts/{id} (protected)
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := utils.GetUserIDFromContext(r.Context())

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	post, err := h.service.Get(r.Context(), viewerID, postID)
	if err != nil {
		writeServiceError(w, h.log, err, "get post")
		return
	}

	utils.ResponseSuccess(w, "success", post)
}

// Delete handles DELETE /api/posts/{id} (protected)
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	if err := h.service.Delete(r.Context(), userID, postID); err != nil {
		writeServiceError(w, h.log, err, "delete post")
		return
	}

	utils.ResponseSuccess(w, "Post deleted", nil)
}

// Repost handles POST /api/posts/{id}/repost (protected)
func (h *PostHandler) Repost(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	var req request.RepostRequest
	if r.Body != nil {
		// Body is optional for a plain repost.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	post, err := h.service.Repost(r.Context(), userID, postID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "repost")
		return
	}

	utils.ResponseCreated(w, "Reposted", post)
}

// Feed handles GET /api/feed (protected)
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	posts, err := h.service.Feed(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get feed")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// ByUser handles GET /api/users/{id}/posts (protected)
func (h *PostHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := utils.GetUserIDFromContext(r.Context())

	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	posts, err := h.service.ByUser(r.Context(), viewerID, userID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get user posts")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// ByHashtag handles GET /api/hashtags/{name}/posts (protected)
func (h *PostHandler) ByHashtag(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := utils.GetUserIDFromContext(r.Context())

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	posts, err := h.service.ByHashtag(r.Context(), viewerID, chi.URLParam(r, "name"), page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get hashtag posts")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// Like handles POST /api/posts/{id}/like (protected)
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	if err := h.service.Like(r.Context(), userID, postID); err != nil {
		writeServiceError(w, h.log, err, "like post")
		return
	}

	utils.ResponseCreated(w, "Liked", nil)
}

// Unlike handles DELETE /api/posts/{id}/like (protected)
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	if err := h.service.Unlike(r.Context(), userID, postID); err != nil {
		writeServiceError(w, h.log, err, "unlike post")
		return
	}

	utils.ResponseSuccess(w, "Unliked", nil)
}

// Comment handles POST /api/posts/{id}/comments (protected)
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	var req request.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.Comment(r.Context(), userID, postID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created", comment)
}

// Comments handles GET /api/posts/{id}/comments (protected)
func (h *PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := utils.GetUserIDFromContext(r.Context())

	postID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid post ID", nil)
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	comments, err := h.service.Comments(r.Context(), viewerID, postID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// DeleteComment handles DELETE /api/comments/{id} (protected)
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid comment ID", nil)
		return
	}

	if err := h.service.DeleteComment(r.Context(), userID, commentID); err != nil {
		writeServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "Comment deleted", nil)
}

// LikeComment handles POST /api/comments/{id}/like (protected)
func (h *PostHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid comment ID", nil)
		return
	}

	if err := h.service.LikeComment(r.Context(), userID, commentID); err != nil {
		writeServiceError(w, h.log, err, "like comment")
		return
	}

	utils.ResponseCreated(w, "Liked", nil)
}

// UnlikeComment handles DELETE /api/comments/{id}/like (protected)
func (h *PostHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid comment ID", nil)
		return
	}

	if err := h.service.UnlikeComment(r.Context(), userID, commentID); err != nil {
		writeServiceError(w, h.log, err, "unlike comment")
		return
	}

	utils.ResponseSuccess(w, "Unliked", nil)
}

// Trends handles GET /api/trends (protected)
func (h *PostHandler) Trends(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 10)

	trends, err := h.service.Trends(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "get trends")
		return
	}

	utils.ResponseSuccess(w, "success", trends)
}

// SearchHashtags handles GET /api/hashtags?q= (protected)
func (h *PostHandler) SearchHashtags(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := utils.ParseInt(query.Get("limit"), 10)

	tags, err := h.service.SearchHashtags(r.Context(), query.Get("q"), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "search hashtags")
		return
	}

	utils.ResponseSuccess(w, "success", tags)
}
