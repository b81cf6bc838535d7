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

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// GetMe handles GET /api/users/me (protected)
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get me")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateMe handles PUT /api/users/me (protected)
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", user)
}

// GetProfile handles GET /api/users/{id} (protected)
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), viewerID, userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// Search handles GET /api/users?q= (protected)
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 10)

	result, err := h.service.Search(r.Context(), query.Get("q"), page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "search users")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetSuggested handles GET /api/users/suggested (protected)
func (h *UserHandler) GetSuggested(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	users, err := h.service.GetSuggested(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get suggested users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// Follow handles POST /api/users/{id}/follow (protected)
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	followedID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.service.Follow(r.Context(), followerID, followedID); err != nil {
		writeServiceError(w, h.log, err, "follow user")
		return
	}

	utils.ResponseCreated(w, "Now following", nil)
}

// Unfollow handles DELETE /api/users/{id}/unfollow (protected)
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	followedID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.service.Unfollow(r.Context(), followerID, followedID); err != nil {
		writeServiceError(w, h.log, err, "unfollow user")
		return
	}

	utils.ResponseSuccess(w, "Unfollowed", nil)
}

// GetFollowers handles GET /api/users/{id}/followers (protected)
func (h *UserHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	users, err := h.service.GetFollowers(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get followers")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// GetFollowing handles GET /api/users/{id}/following (protected)
func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	users, err := h.service.GetFollowing(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get following")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// UpdateStatus handles PATCH /api/update-status (protected)
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), userID, &req); err != nil {
		writeServiceError(w, h.log, err, "update status")
		return
	}

	utils.ResponseSuccess(w, "Status updated", nil)
}

// ChangePassword handles POST /api/change-password (protected)
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password changed", nil)
}

// SetOnline handles POST /api/online-status (protected)
func (h *UserHandler) SetOnline(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		Online bool `json:"online"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetOnline(r.Context(), userID, req.Online); err != nil {
		writeServiceError(w, h.log, err, "set online status")
		return
	}

	utils.ResponseSuccess(w, "Online status updated", nil)
}

// GetOnline handles GET /api/online-status?user_id= (protected)
func (h *UserHandler) GetOnline(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseUUID(r.URL.Query().Get("user_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	online, err := h.service.IsOnline(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get online status")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]bool{"online": online})
}
