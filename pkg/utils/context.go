package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	PhoneKey    contextKey = "phone"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(UsernameKey)
	if val == nil {
		return "", false
	}

	username, ok := val.(string)
	return username, ok
}

func SetUserContext(ctx context.Context, userID uuid.UUID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, UsernameKey, username)
	return ctx
}

// GetPhoneFromContext returns the phone claim set by the temp-token middleware
func GetPhoneFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(PhoneKey)
	if val == nil {
		return "", false
	}

	phone, ok := val.(string)
	return phone, ok
}

func SetPhoneContext(ctx context.Context, phone string) context.Context {
	return context.WithValue(ctx, PhoneKey, phone)
}
