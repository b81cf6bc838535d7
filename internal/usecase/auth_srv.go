package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/internal/dto/response"
	"opentalk/pkg/notifier"
	"opentalk/pkg/token"
	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// defaultResendSeconds is the client-facing resend timer returned by
// SendCode when CODE_RESEND_SECONDS is unset. It is independent of the
// code's storage TTL.
const defaultResendSeconds = 120

const qrSessionTTL = 5 * time.Minute

type AuthService interface {
	SendCode(ctx context.Context, req *request.SendCodeRequest) (*response.SendCodeResponse, error)
	VerifyCode(ctx context.Context, req *request.VerifyCodeRequest) (*response.VerifyCodeResponse, error)
	Register(ctx context.Context, phone string, req *request.RegisterRequest) (*response.AuthResponse, error)
	CheckUsername(ctx context.Context, username string) (*response.CheckUsernameResponse, error)
	Login(ctx context.Context, req *request.VerifyCodeRequest) (*response.AuthResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.AuthResponse, error)
	CreateQRSession(ctx context.Context) (*response.QRSessionResponse, error)
	CheckQRStatus(ctx context.Context, sessionID string) (*response.QRStatusResponse, error)
	AuthenticateQR(ctx context.Context, userID uuid.UUID, req *request.QRConfirmRequest) error
}

type authService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	maker  *token.Maker
	sink   notifier.Sink
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	rdb *redis.Client,
	maker *token.Maker,
	sink notifier.Sink,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		rdb:    rdb,
		maker:  maker,
		sink:   sink,
		config: config,
		log:    log,
	}
}

// SendCode issues a fresh verification code for the phone. All prior
// unused codes for the phone are invalidated first, so at most one code
// is actionable at a time. Delivery is best-effort: a sink failure is
// logged and the issuance still succeeds.
func (s *authService) SendCode(ctx context.Context, req *request.SendCodeRequest) (*response.SendCodeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("SendCode validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	if err := s.repo.VerificationCode.MarkAllUsedByPhone(ctx, req.Phone); err != nil {
		return nil, fmt.Errorf("invalidate previous codes: %w", err)
	}

	now := time.Now()
	code := &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		Phone:     req.Phone,
		Code:      utils.GenerateCode(s.config.Code.Length),
		ExpiresAt: now.Add(time.Duration(s.config.Code.ExpiryMinutes) * time.Minute),
		IsUsed:    false,
	}

	if err := s.repo.VerificationCode.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}

	if err := s.sink.SendCode(ctx, code.Phone, code.Code); err != nil {
		s.log.Warn("Code delivery failed",
			zap.Error(err),
			zap.String("phone", notifier.MaskPhone(code.Phone)))
	}

	s.log.Info("Verification code issued",
		zap.String("phone", notifier.MaskPhone(code.Phone)),
		zap.Time("expires_at", code.ExpiresAt))

	resendSeconds := s.config.Code.ResendSeconds
	if resendSeconds <= 0 {
		resendSeconds = defaultResendSeconds
	}

	return &response.SendCodeResponse{
		Success:   true,
		Message:   "Verification code sent",
		ExpiresIn: resendSeconds,
	}, nil
}

// VerifyCode consumes the newest unused, unexpired code for the phone.
// An existing account gets a full token pair; an unknown phone gets a
// registration-scoped temp token instead.
func (s *authService) VerifyCode(ctx context.Context, req *request.VerifyCodeRequest) (*response.VerifyCodeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("VerifyCode validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.consumeCode(ctx, req.Phone, req.Code)
	if err != nil {
		return nil, err
	}

	if user == nil {
		tempToken, err := s.maker.CreateTempToken(req.Phone)
		if err != nil {
			return nil, fmt.Errorf("create temp token: %w", err)
		}

		s.log.Info("Phone verified for new user",
			zap.String("phone", notifier.MaskPhone(req.Phone)))

		return &response.VerifyCodeResponse{
			Success:   true,
			IsNewUser: true,
			TempToken: tempToken,
		}, nil
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &response.VerifyCodeResponse{
		Success:      true,
		IsNewUser:    false,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         response.UserToResponse(user),
	}, nil
}

// consumeCode validates and single-uses the code, then looks up the
// account bound to the phone. A nil user with nil error means the phone
// is verified but not yet registered.
func (s *authService) consumeCode(ctx context.Context, phone, code string) (*entity.User, error) {
	record, err := s.repo.VerificationCode.FindValidCode(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("look up verification code: %w", err)
	}
	if record == nil {
		s.log.Warn("Verification rejected",
			zap.String("phone", notifier.MaskPhone(phone)))
		return nil, ErrInvalidOrExpiredCode
	}

	if err := s.repo.VerificationCode.MarkAsUsed(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("consume verification code: %w", err)
	}

	user, err := s.repo.User.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("look up account by phone: %w", err)
	}

	return user, nil
}

func (s *authService) issuePair(ctx context.Context, user *entity.User) (*token.Pair, error) {
	pair, err := s.maker.CreatePair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("create token pair: %w", err)
	}

	now := time.Now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Warn("Failed to record last login",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User authenticated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return pair, nil
}

// Register completes account creation for a phone already confirmed via
// VerifyCode. The phone argument comes from the temp token claim and
// must match the body.
func (s *authService) Register(ctx context.Context, phone string, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	if req.Phone != phone {
		return nil, fmt.Errorf("%w: phone does not match verification", ErrForbidden)
	}

	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.repo.User.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("check phone: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: phone already registered", ErrConflict)
	}

	// Login is phone+code only; the stored credential is a random
	// placeholder no human can guess or use.
	hashed, err := utils.HashPassword(utils.GenerateRandomPassword())
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		PasswordHash: hashed,
		Phone:        &req.Phone,
		Status:       entity.StatusOffline,
		Theme:        entity.ThemeLight,
		IsVerified:   true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("Account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &response.AuthResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         response.UserToResponse(user),
	}, nil
}

func (s *authService) CheckUsername(ctx context.Context, username string) (*response.CheckUsernameResponse, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be 3-50 characters", ErrValidation)
	}

	existing, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if existing != nil {
		return &response.CheckUsernameResponse{
			Available: false,
			Message:   "Username is already taken",
		}, nil
	}

	return &response.CheckUsernameResponse{
		Available: true,
		Message:   "Username is available",
	}, nil
}

// Login is the phone+code direct login path. Unlike VerifyCode it
// requires an existing account.
func (s *authService) Login(ctx context.Context, req *request.VerifyCodeRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.consumeCode(ctx, req.Phone, req.Code)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no account for this phone", ErrNotFound)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &response.AuthResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         response.UserToResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	claims, err := s.maker.Parse(req.RefreshToken, token.ScopeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrUnauthorized)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}

	pair, err := s.maker.CreatePair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("create token pair: %w", err)
	}

	return &response.AuthResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         response.UserToResponse(user),
	}, nil
}

type qrSession struct {
	Status string    `json:"status"`
	UserID uuid.UUID `json:"user_id,omitempty"`
}

func qrKey(sessionID string) string {
	return "qr_session:" + sessionID
}

// CreateQRSession opens a pending login session a desktop client polls
// while the phone app confirms it.
func (s *authService) CreateQRSession(ctx context.Context) (*response.QRSessionResponse, error) {
	sessionID := uuid.New().String()

	data, err := json.Marshal(qrSession{Status: "pending"})
	if err != nil {
		return nil, fmt.Errorf("marshal qr session: %w", err)
	}

	if err := s.rdb.Set(ctx, qrKey(sessionID), data, qrSessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("store qr session: %w", err)
	}

	return &response.QRSessionResponse{
		SessionID: sessionID,
		ExpiresIn: int(qrSessionTTL.Seconds()),
	}, nil
}

func (s *authService) CheckQRStatus(ctx context.Context, sessionID string) (*response.QRStatusResponse, error) {
	data, err := s.rdb.Get(ctx, qrKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: qr session expired or unknown", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load qr session: %w", err)
	}

	var session qrSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal qr session: %w", err)
	}

	if session.Status != "confirmed" {
		return &response.QRStatusResponse{Status: session.Status}, nil
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account no longer exists", ErrNotFound)
	}

	pair, err := s.maker.CreatePair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("create token pair: %w", err)
	}

	// One-shot: a confirmed session is consumed by the first poll that
	// sees it.
	if err := s.rdb.Del(ctx, qrKey(sessionID)).Err(); err != nil {
		s.log.Warn("Failed to delete consumed qr session", zap.Error(err))
	}

	return &response.QRStatusResponse{
		Status:       "confirmed",
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         response.UserToResponse(user),
	}, nil
}

// AuthenticateQR is called from the already-authenticated phone app to
// bind a pending session to the caller.
func (s *authService) AuthenticateQR(ctx context.Context, userID uuid.UUID, req *request.QRConfirmRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	key := qrKey(req.SessionID)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("%w: qr session expired or unknown", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load qr session: %w", err)
	}

	var session qrSession
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("unmarshal qr session: %w", err)
	}
	if session.Status != "pending" {
		return fmt.Errorf("%w: qr session already confirmed", ErrConflict)
	}

	session.Status = "confirmed"
	session.UserID = userID

	updated, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal qr session: %w", err)
	}

	if err := s.rdb.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("update qr session: %w", err)
	}

	s.log.Info("QR session confirmed",
		zap.String("session_id", req.SessionID),
		zap.String("user_id", userID.String()))

	return nil
}
