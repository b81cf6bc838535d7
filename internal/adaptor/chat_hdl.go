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

type ChatHandler struct {
	service usecase.ChatService
	log     *zap.Logger
}

func NewChatHandler(service usecase.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log,
	}
}

// CreateDirect handles POST /api/chats (protected)
func (h *ChatHandler) CreateDirect(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	chat, err := h.service.CreateDirect(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create chat")
		return
	}

	utils.ResponseCreated(w, "success", chat)
}

// CreateGroup handles POST /api/chats/group (protected)
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateGroupChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	chat, err := h.service.CreateGroup(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create group chat")
		return
	}

	utils.ResponseCreated(w, "success", chat)
}

// List handles GET /api/chats (protected)
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	chats, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "list chats")
		return
	}

	utils.ResponseSuccess(w, "success", chats)
}

// Messages handles GET /api/chats/{id}/messages (protected)
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	chatID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid chat ID", nil)
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 50)

	messages, err := h.service.Messages(r.Context(), userID, chatID, page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "get messages")
		return
	}

	utils.ResponseSuccess(w, "success", messages)
}

// SendMessage handles POST /api/chats/{id}/messages (protected)
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	chatID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid chat ID", nil)
		return
	}

	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	message, err := h.service.SendMessage(r.Context(), userID, chatID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "send message")
		return
	}

	utils.ResponseCreated(w, "success", message)
}

// MarkRead handles POST /api/chats/{id}/read (protected)
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	chatID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid chat ID", nil)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, h.log, err, "mark chat read")
		return
	}

	utils.ResponseSuccess(w, "Chat marked as read", nil)
}

// RegisterAttachment handles POST /api/attachments (protected)
func (h *ChatHandler) RegisterAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		FileName string `json:"file_name"`
		FileSize int64  `json:"file_size"`
		URL      string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	attachment, err := h.service.RegisterAttachment(r.Context(), userID, req.FileName, req.FileSize, req.URL)
	if err != nil {
		writeServiceError(w, h.log, err, "register attachment")
		return
	}

	utils.ResponseCreated(w, "success", attachment)
}
