package dto

// LoginRequest describes the email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the redacted user view.
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// MessageResponse carries a human readable status or error.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest describes the signup payload.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Address         string `json:"address"`
	Role            string `json:"role,omitempty"`
}

// RegisterResponse is returned once the account is created.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
