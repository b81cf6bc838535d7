package response

import (
	"time"

	"opentalk/internal/data/entity"
)

type NotificationResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Content       string    `json:"content"`
	ReferenceID   *string   `json:"reference_id,omitempty"`
	ReferenceType *string   `json:"reference_type,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type PremiumResponse struct {
	ID        string    `json:"id"`
	PlanType  string    `json:"plan_type"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}

func NotificationToResponse(n *entity.Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:            n.ID.String(),
		Type:          string(n.Type),
		Content:       n.Content,
		ReferenceType: n.ReferenceType,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}

	if n.ReferenceID != nil {
		id := n.ReferenceID.String()
		resp.ReferenceID = &id
	}

	return resp
}

func PremiumToResponse(sub *entity.PremiumSubscription) *PremiumResponse {
	return &PremiumResponse{
		ID:        sub.ID.String(),
		PlanType:  string(sub.PlanType),
		StartedAt: sub.StartedAt,
		ExpiresAt: sub.ExpiresAt,
		IsActive:  sub.IsActive,
	}
}
