package request

type SendCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=10,max=15,e164|numeric"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=10,max=15,e164|numeric"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Phone    string `json:"phone" validate:"required,min=10,max=15,e164|numeric"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type QRConfirmRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid4"`
}
