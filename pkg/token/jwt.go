package token

import (
	"errors"
	"fmt"
	"time"

	"opentalk/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token scopes. Access tokens grant full API access, refresh tokens may
// only be exchanged for a new pair, registration tokens prove phone
// ownership and may only complete account creation.
const (
	ScopeAccess       = "access"
	ScopeRefresh      = "refresh"
	ScopeRegistration = "registration"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongScope   = errors.New("token has wrong scope")
)

// Claims carried by every opentalk JWT. Phone is only set on
// registration-scoped temp tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Scope    string `json:"scope"`
}

// Maker mints and parses HMAC-signed tokens.
type Maker struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	tempExpiry    time.Duration
}

func NewMaker(config utils.JWTConfig) *Maker {
	return &Maker{
		secret:        []byte(config.Secret),
		accessExpiry:  time.Duration(config.AccessExpiryHrs) * time.Hour,
		refreshExpiry: time.Duration(config.RefreshExpiryHrs) * time.Hour,
		tempExpiry:    time.Duration(config.TempExpiryMins) * time.Minute,
	}
}

// Pair is a full access+refresh token pair bound to an account identity.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (m *Maker) CreatePair(userID uuid.UUID, username string) (*Pair, error) {
	expiresAt := time.Now().Add(m.accessExpiry)

	access, err := m.sign(Claims{
		RegisteredClaims: registered(userID.String(), expiresAt),
		Username:         username,
		Scope:            ScopeAccess,
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := m.sign(Claims{
		RegisteredClaims: registered(userID.String(), time.Now().Add(m.refreshExpiry)),
		Username:         username,
		Scope:            ScopeRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// CreateTempToken mints a registration-scoped token carrying only the
// verified phone. It is not valid for general API access.
func (m *Maker) CreateTempToken(phone string) (string, error) {
	tok, err := m.sign(Claims{
		RegisteredClaims: registered("", time.Now().Add(m.tempExpiry)),
		Phone:            phone,
		Scope:            ScopeRegistration,
	})
	if err != nil {
		return "", fmt.Errorf("sign temp token: %w", err)
	}
	return tok, nil
}

// Parse validates the signature and expiry and checks the expected scope.
func (m *Maker) Parse(tokenStr, scope string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Scope != scope {
		return nil, ErrWrongScope
	}

	return claims, nil
}

// UserID parses the subject claim as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func (m *Maker) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func registered(subject string, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}
