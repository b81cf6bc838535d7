package response

// The phone-auth endpoints return flat payloads rather than the shared
// envelope, so mobile clients can bind them directly.

type SendCodeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"`
}

type VerifyCodeResponse struct {
	Success      bool          `json:"success"`
	IsNewUser    bool          `json:"isNewUser"`
	TempToken    string        `json:"tempToken,omitempty"`
	Token        string        `json:"token,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
}

type AuthResponse struct {
	Success      bool          `json:"success"`
	Token        string        `json:"token"`
	RefreshToken string        `json:"refreshToken"`
	User         *UserResponse `json:"user"`
}

type CheckUsernameResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type QRSessionResponse struct {
	SessionID string `json:"sessionId"`
	ExpiresIn int    `json:"expiresIn"`
}

type QRStatusResponse struct {
	Status       string        `json:"status"`
	Token        string        `json:"token,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
}
