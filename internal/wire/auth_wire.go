package wire

import (
	"opentalk/internal/adaptor"
	"opentalk/pkg/middleware"
	"opentalk/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	maker *token.Maker,
	log *zap.Logger,
) {
	// Public routes
	r.Post("/auth/send-code", authHandler.SendCode)
	r.Post("/auth/verify-code", authHandler.VerifyCode)
	r.Get("/auth/check-username", authHandler.CheckUsername)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh-token", authHandler.Refresh)
	r.Get("/auth/qr-code", authHandler.CreateQRSession)
	r.Get("/auth/check-qr-status", authHandler.CheckQRStatus)

	// Registration requires the temp token from verify-code
	r.With(middleware.TempAuth(maker, log)).Post("/auth/register", authHandler.Register)

	// Protected routes
	r.With(middleware.Auth(maker, log)).Post("/auth/logout", authHandler.Logout)
	r.With(middleware.Auth(maker, log)).Post("/auth/authenticate-qr", authHandler.AuthenticateQR)
}
