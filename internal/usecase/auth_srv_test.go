package usecase

import (
	"context"
	"testing"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/pkg/token"
	"opentalk/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	srv   AuthService
	codes *fakeCodeRepo
	users *fakeUserRepo
	sink  *fakeSink
	maker *token.Maker
	rdb   *redis.Client
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rdb.Close() })

	config := &utils.Config{
		Code: utils.CodeConfig{
			ExpiryMinutes: 10,
			Length:        6,
			ResendSeconds: 90,
		},
		JWT: utils.JWTConfig{
			Secret:           "test-secret-key",
			AccessExpiryHrs:  24,
			RefreshExpiryHrs: 168,
			TempExpiryMins:   15,
		},
	}

	codes := &fakeCodeRepo{}
	users := newFakeUserRepo()
	sink := &fakeSink{}
	maker := token.NewMaker(config.JWT)

	repo := &repository.Repository{
		User:             users,
		VerificationCode: codes,
	}

	return &authFixture{
		srv:   NewAuthService(repo, rdb, maker, sink, config, zap.NewNop()),
		codes: codes,
		users: users,
		sink:  sink,
		maker: maker,
		rdb:   rdb,
	}
}

func (f *authFixture) sendCode(t *testing.T, phone string) string {
	t.Helper()
	resp, err := f.srv.SendCode(context.Background(), &request.SendCodeRequest{Phone: phone})
	require.NoError(t, err)
	require.True(t, resp.Success)

	latest := f.codes.latestFor(phone)
	require.NotNil(t, latest)
	return latest.Code
}

func (f *authFixture) register(t *testing.T, phone, username string) uuid.UUID {
	t.Helper()
	resp, err := f.srv.Register(context.Background(), phone, &request.RegisterRequest{
		Username: username,
		Phone:    phone,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	return uuid.MustParse(resp.User.ID)
}

func TestSendCode_InvalidatesPreviousCodes(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"

	first := f.sendCode(t, phone)
	second := f.sendCode(t, phone)

	assert.Equal(t, 1, f.codes.unusedFor(phone), "only the newest code should be actionable")

	_, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: first})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode, "superseded code must be rejected")

	resp, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: second})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestSendCode_DeliveryFailureStillIssues(t *testing.T) {
	f := newAuthFixture(t)
	f.sink.fail = assert.AnError
	phone := "+79991112233"

	resp, err := f.srv.SendCode(context.Background(), &request.SendCodeRequest{Phone: phone})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, f.codes.latestFor(phone))
}

func TestSendCode_ResendWindowFromConfig(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.srv.SendCode(context.Background(), &request.SendCodeRequest{Phone: "+79991112233"})
	require.NoError(t, err)
	assert.Equal(t, 90, resp.ExpiresIn, "resend window must follow CODE_RESEND_SECONDS")
}

func TestSendCode_InvalidPhone(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.srv.SendCode(context.Background(), &request.SendCodeRequest{Phone: "abc"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyCode_SingleUse(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	code := f.sendCode(t, phone)

	resp, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode, "a consumed code must not verify twice")
}

func TestVerifyCode_Expired(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	code := f.sendCode(t, phone)

	f.codes.expireAll(phone)

	_, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestVerifyCode_WrongCodeLeavesStoredCodeIntact(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	code := f.sendCode(t, phone)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: wrong})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	assert.Equal(t, 1, f.codes.unusedFor(phone), "a failed attempt must not consume the stored code")

	resp, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestVerifyCode_NewUserGetsTempToken(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	code := f.sendCode(t, phone)

	resp, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	require.NoError(t, err)

	assert.True(t, resp.IsNewUser)
	assert.NotEmpty(t, resp.TempToken)
	assert.Empty(t, resp.Token)
	assert.Empty(t, resp.RefreshToken)
	assert.Nil(t, resp.User)

	claims, err := f.maker.Parse(resp.TempToken, token.ScopeRegistration)
	require.NoError(t, err)
	assert.Equal(t, phone, claims.Phone)
}

func TestVerifyCode_ExistingUserGetsTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"

	code := f.sendCode(t, phone)
	_, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	require.NoError(t, err)
	userID := f.register(t, phone, "marina")

	code = f.sendCode(t, phone)
	resp, err := f.srv.VerifyCode(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	require.NoError(t, err)

	assert.False(t, resp.IsNewUser)
	assert.Empty(t, resp.TempToken)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, userID.String(), resp.User.ID)

	stored, err := f.users.FindByID(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestRegister_PhoneMismatch(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.srv.Register(context.Background(), "+79991112233", &request.RegisterRequest{
		Username: "marina",
		Phone:    "+79990000000",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegister_UsernameTaken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "+79991112233", "marina")

	_, err := f.srv.Register(context.Background(), "+79994445566", &request.RegisterRequest{
		Username: "marina",
		Phone:    "+79994445566",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_PhoneAlreadyRegistered(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	f.register(t, phone, "marina")

	_, err := f.srv.Register(context.Background(), phone, &request.RegisterRequest{
		Username: "sergey",
		Phone:    phone,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_IssuesUsableTokens(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"

	resp, err := f.srv.Register(context.Background(), phone, &request.RegisterRequest{
		Username: "marina",
		Phone:    phone,
	})
	require.NoError(t, err)

	claims, err := f.maker.Parse(resp.Token, token.ScopeAccess)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID.String())

	_, err = f.maker.Parse(resp.RefreshToken, token.ScopeRefresh)
	assert.NoError(t, err)
}

func TestCheckUsername(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "+79991112233", "marina")

	resp, err := f.srv.CheckUsername(context.Background(), "marina")
	require.NoError(t, err)
	assert.False(t, resp.Available)

	resp, err = f.srv.CheckUsername(context.Background(), "sergey")
	require.NoError(t, err)
	assert.True(t, resp.Available)

	_, err = f.srv.CheckUsername(context.Background(), "ab")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_RequiresExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	code := f.sendCode(t, phone)

	_, err := f.srv.Login(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	assert.ErrorIs(t, err, ErrNotFound)

	// The code is consumed even though no account exists.
	assert.Equal(t, 0, f.codes.unusedFor(phone))
}

func TestLogin_ExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	f.register(t, phone, "marina")

	code := f.sendCode(t, phone)
	resp, err := f.srv.Login(context.Background(), &request.VerifyCodeRequest{Phone: phone, Code: code})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "marina", resp.User.Username)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+79991112233"
	reg, err := f.srv.Register(context.Background(), phone, &request.RegisterRequest{
		Username: "marina",
		Phone:    phone,
	})
	require.NoError(t, err)

	resp, err := f.srv.Refresh(context.Background(), &request.RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	// An access token must not pass as a refresh token.
	_, err = f.srv.Refresh(context.Background(), &request.RefreshRequest{RefreshToken: reg.Token})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestQRFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	phone := "+79991112233"
	userID := f.register(t, phone, "marina")

	session, err := f.srv.CreateQRSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, 300, session.ExpiresIn)

	status, err := f.srv.CheckQRStatus(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "pending", status.Status)

	err = f.srv.AuthenticateQR(ctx, userID, &request.QRConfirmRequest{SessionID: session.SessionID})
	require.NoError(t, err)

	// A second confirmation of the same session is rejected.
	err = f.srv.AuthenticateQR(ctx, userID, &request.QRConfirmRequest{SessionID: session.SessionID})
	assert.ErrorIs(t, err, ErrConflict)

	status, err = f.srv.CheckQRStatus(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", status.Status)
	assert.NotEmpty(t, status.Token)
	require.NotNil(t, status.User)
	assert.Equal(t, userID.String(), status.User.ID)

	// The confirmed session is consumed by the first successful poll.
	_, err = f.srv.CheckQRStatus(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQRStatus_UnknownSession(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.srv.CheckQRStatus(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}
