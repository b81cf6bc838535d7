package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"opentalk/internal/dto/request"
	"opentalk/internal/dto/response"
	"opentalk/internal/usecase"
	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAuthService returns canned values so tests exercise only the
// HTTP layer: decoding, status codes and error mapping.
type stubAuthService struct {
	sendCode      func(*request.SendCodeRequest) (*response.SendCodeResponse, error)
	verifyCode    func(*request.VerifyCodeRequest) (*response.VerifyCodeResponse, error)
	register      func(string, *request.RegisterRequest) (*response.AuthResponse, error)
	checkUsername func(string) (*response.CheckUsernameResponse, error)
}

func (s *stubAuthService) SendCode(_ context.Context, req *request.SendCodeRequest) (*response.SendCodeResponse, error) {
	return s.sendCode(req)
}

func (s *stubAuthService) VerifyCode(_ context.Context, req *request.VerifyCodeRequest) (*response.VerifyCodeResponse, error) {
	return s.verifyCode(req)
}

func (s *stubAuthService) Register(_ context.Context, phone string, req *request.RegisterRequest) (*response.AuthResponse, error) {
	return s.register(phone, req)
}

func (s *stubAuthService) CheckUsername(_ context.Context, username string) (*response.CheckUsernameResponse, error) {
	return s.checkUsername(username)
}

func (s *stubAuthService) Login(_ context.Context, _ *request.VerifyCodeRequest) (*response.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Refresh(_ context.Context, _ *request.RefreshRequest) (*response.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) CreateQRSession(_ context.Context) (*response.QRSessionResponse, error) {
	return nil, nil
}

func (s *stubAuthService) CheckQRStatus(_ context.Context, _ string) (*response.QRStatusResponse, error) {
	return nil, nil
}

func (s *stubAuthService) AuthenticateQR(_ context.Context, _ uuid.UUID, _ *request.QRConfirmRequest) error {
	return nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSendCodeHandler(t *testing.T) {
	svc := &stubAuthService{
		sendCode: func(req *request.SendCodeRequest) (*response.SendCodeResponse, error) {
			assert.Equal(t, "+79991112233", req.Phone)
			return &response.SendCodeResponse{Success: true, Message: "Verification code sent", ExpiresIn: 120}, nil
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := postJSON(t, h.SendCode, map[string]string{"phone": "+79991112233"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body response.SendCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 120, body.ExpiresIn)
}

func TestSendCodeHandler_ValidationError(t *testing.T) {
	svc := &stubAuthService{
		sendCode: func(_ *request.SendCodeRequest) (*response.SendCodeResponse, error) {
			return nil, usecase.ErrValidation
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := postJSON(t, h.SendCode, map[string]string{"phone": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendCodeHandler_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.SendCode(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyCodeHandler_NewUser(t *testing.T) {
	svc := &stubAuthService{
		verifyCode: func(_ *request.VerifyCodeRequest) (*response.VerifyCodeResponse, error) {
			return &response.VerifyCodeResponse{Success: true, IsNewUser: true, TempToken: "temp-token"}, nil
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := postJSON(t, h.VerifyCode, map[string]string{"phone": "+79991112233", "code": "123456"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isNewUser"])
	assert.Equal(t, "temp-token", body["tempToken"])
	assert.NotContains(t, body, "token")
	assert.NotContains(t, body, "user")
}

func TestVerifyCodeHandler_InvalidCode(t *testing.T) {
	svc := &stubAuthService{
		verifyCode: func(_ *request.VerifyCodeRequest) (*response.VerifyCodeResponse, error) {
			return nil, usecase.ErrInvalidOrExpiredCode
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := postJSON(t, h.VerifyCode, map[string]string{"phone": "+79991112233", "code": "000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandler(t *testing.T) {
	svc := &stubAuthService{
		register: func(phone string, req *request.RegisterRequest) (*response.AuthResponse, error) {
			assert.Equal(t, "+79991112233", phone)
			return &response.AuthResponse{
				Success: true,
				Token:   "access",
				User:    &response.UserResponse{Username: req.Username},
			}, nil
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	buf, err := json.Marshal(map[string]string{"username": "marina", "phone": "+79991112233"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	req = req.WithContext(utils.SetPhoneContext(req.Context(), "+79991112233"))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterHandler_NoTempClaim(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zap.NewNop())

	rec := postJSON(t, h.Register, map[string]string{"username": "marina", "phone": "+79991112233"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterHandler_UsernameTaken(t *testing.T) {
	svc := &stubAuthService{
		register: func(_ string, _ *request.RegisterRequest) (*response.AuthResponse, error) {
			return nil, usecase.ErrUsernameTaken
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	buf, err := json.Marshal(map[string]string{"username": "marina", "phone": "+79991112233"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	req = req.WithContext(utils.SetPhoneContext(req.Context(), "+79991112233"))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckUsernameHandler(t *testing.T) {
	svc := &stubAuthService{
		checkUsername: func(username string) (*response.CheckUsernameResponse, error) {
			assert.Equal(t, "marina", username)
			return &response.CheckUsernameResponse{Available: true, Message: "Username is available"}, nil
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/?username=marina", nil)
	rec := httptest.NewRecorder()
	h.CheckUsername(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body response.CheckUsernameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Available)
}
