package middleware

import (
	"net/http"
	"strings"

	"opentalk/pkg/token"
	"opentalk/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates a Bearer access token and sets the user identity on
// the request context.
func Auth(maker *token.Maker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or malformed authorization token")
				return
			}

			claims, err := maker.Parse(tokenStr, token.ScopeAccess)
			if err != nil {
				logger.Warn("Invalid access token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.Warn("Access token with bad subject", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TempAuth validates a registration-scoped temp token minted by the
// verify-code step. Only the phone claim is trusted; there is no account
// identity yet.
func TempAuth(maker *token.Maker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or malformed authorization token")
				return
			}

			claims, err := maker.Parse(tokenStr, token.ScopeRegistration)
			if err != nil {
				logger.Warn("Invalid temp token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Phone verification required")
				return
			}

			ctx := utils.SetPhoneContext(r.Context(), claims.Phone)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
