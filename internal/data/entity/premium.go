package entity

import (
	"time"

	"github.com/google/uuid"
)

type PremiumPlan string

const (
	PlanMonthly PremiumPlan = "monthly"
	PlanYearly  PremiumPlan = "yearly"
)

type PremiumSubscription struct {
	ID        uuid.UUID   `db:"id"`
	UserID    uuid.UUID   `db:"user_id"`
	PlanType  PremiumPlan `db:"plan_type"`
	StartedAt time.Time   `db:"started_at"`
	ExpiresAt time.Time   `db:"expires_at"`
	IsActive  bool        `db:"is_active"`
	PaymentID *string     `db:"payment_id"`
}
