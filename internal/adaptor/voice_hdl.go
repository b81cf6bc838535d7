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

type VoiceHandler struct {
	service usecase.VoiceService
	log     *zap.Logger
}

func NewVoiceHandler(service usecase.VoiceService, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		service: service,
		log:     log,
	}
}

// CreateChannel handles POST /api/voice/channels (protected)
func (h *VoiceHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateVoiceChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	channel, err := h.service.CreateChannel(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create voice channel")
		return
	}

	utils.ResponseCreated(w, "success", channel)
}

// ListChannels handles GET /api/voice/channels (protected)
func (h *VoiceHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	channels, err := h.service.ListChannels(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "list voice channels")
		return
	}

	utils.ResponseSuccess(w, "success", channels)
}

// JoinChannel handles POST /api/voice/channels/{id}/join (protected)
func (h *VoiceHandler) JoinChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	channelID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid channel ID", nil)
		return
	}

	if err := h.service.JoinChannel(r.Context(), userID, channelID); err != nil {
		writeServiceError(w, h.log, err, "join voice channel")
		return
	}

	utils.ResponseSuccess(w, "Joined channel", nil)
}

// LeaveChannel handles POST /api/voice/channels/{id}/leave (protected)
func (h *VoiceHandler) LeaveChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	channelID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid channel ID", nil)
		return
	}

	if err := h.service.LeaveChannel(r.Context(), userID, channelID); err != nil {
		writeServiceError(w, h.log, err, "leave voice channel")
		return
	}

	utils.ResponseSuccess(w, "Left channel", nil)
}

// ChannelMembers handles GET /api/voice/channels/{id}/members (protected)
func (h *VoiceHandler) ChannelMembers(w http.ResponseWriter, r *http.Request) {
	channelID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid channel ID", nil)
		return
	}

	members, err := h.service.ChannelMembers(r.Context(), channelID)
	if err != nil {
		writeServiceError(w, h.log, err, "get channel members")
		return
	}

	utils.ResponseSuccess(w, "success", members)
}

// UpdateStatus handles PATCH /api/voice/channels/{id}/status (protected)
func (h *VoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	channelID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid channel ID", nil)
		return
	}

	var req request.UpdateVoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.UpdateMemberStatus(r.Context(), userID, channelID, &req); err != nil {
		writeServiceError(w, h.log, err, "update voice status")
		return
	}

	utils.ResponseSuccess(w, "Status updated", nil)
}

// CloseChannel handles DELETE /api/voice/channels/{id} (protected)
func (h *VoiceHandler) CloseChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	channelID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid channel ID", nil)
		return
	}

	if err := h.service.CloseChannel(r.Context(), userID, channelID); err != nil {
		writeServiceError(w, h.log, err, "close voice channel")
		return
	}

	utils.ResponseSuccess(w, "Channel closed", nil)
}

// StartCall handles POST /api/calls (protected)
func (h *VoiceHandler) StartCall(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StartCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	call, err := h.service.StartCall(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "start call")
		return
	}

	utils.ResponseCreated(w, "success", call)
}

// EndCall handles POST /api/calls/{id}/end (protected)
func (h *VoiceHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	callID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid call ID", nil)
		return
	}

	var req request.EndCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	call, err := h.service.EndCall(r.Context(), userID, callID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "end call")
		return
	}

	utils.ResponseSuccess(w, "Call ended", call)
}

// CallHistory handles GET /api/calls (protected)
func (h *VoiceHandler) CallHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	calls, err := h.service.CallHistory(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get call history")
		return
	}

	utils.ResponseSuccess(w, "success", calls)
}
