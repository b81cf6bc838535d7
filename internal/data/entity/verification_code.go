package entity

import "time"

// VerificationCode is a short-lived one-time secret bound to a phone
// number. At most one unused, unexpired code is actionable per phone:
// issuing a new code marks all prior unused codes as used.
type VerificationCode struct {
	BaseSimple
	Phone     string    `db:"phone"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}
