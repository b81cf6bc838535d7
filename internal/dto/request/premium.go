package request

type SubscribePremiumRequest struct {
	PlanType  string  `json:"plan_type" validate:"required,oneof=monthly yearly"`
	PaymentID *string `json:"payment_id,omitempty"`
}
