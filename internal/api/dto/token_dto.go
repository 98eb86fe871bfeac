package dto

// InviteRequest asks for a project invitation to be mailed.
type InviteRequest struct {
	Email     string `json:"email"`
	ProjectID string `json:"project_id"`
}

// ResetPasswordRequest consumes a reset token with the new secret.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// TokenValidationRequest checks a reset token without consuming it.
type TokenValidationRequest struct {
	Token string `json:"token"`
}

// MessageResponse is a plain acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}
