package adaptor

import (
	"encoding/json"
	"net/http"

	"opentalk/internal/dto/request"
	"opentalk/internal/usecase"
	"opentalk/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// SendCode handles POST /auth/send-code
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req request.SendCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.SendCode(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "send code")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// VerifyCode handles POST /auth/verify-code
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.VerifyCode(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "verify code")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Register handles POST /auth/register (requires temp token)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	phone, ok := utils.GetPhoneFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Phone verification required")
		return
	}

	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Register(r.Context(), phone, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "register")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, resp)
}

// CheckUsername handles GET /auth/check-username?username=
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	resp, err := h.service.CheckUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.log, err, "check username")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "login")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /auth/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "refresh token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this is
// an acknowledgement for clients that discard their pair.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// CreateQRSession handles GET /auth/qr-code
func (h *AuthHandler) CreateQRSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CreateQRSession(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "create qr session")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// CheckQRStatus handles GET /auth/check-qr-status?sessionId=
func (h *AuthHandler) CheckQRStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "sessionId is required", nil)
		return
	}

	resp, err := h.service.CheckQRStatus(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.log, err, "check qr status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// AuthenticateQR handles POST /auth/authenticate-qr (protected)
func (h *AuthHandler) AuthenticateQR(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.QRConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.AuthenticateQR(r.Context(), userID, &req); err != nil {
		writeServiceError(w, h.log, err, "authenticate qr")
		return
	}

	utils.ResponseSuccess(w, "QR session confirmed", nil)
}
