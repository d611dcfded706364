package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// RegisterRequest validates new identity registrations.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest carries a credential pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse serializes an identity for API responses.
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse with the resolved role.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        string(models.ResolveRole(&user)),
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
	}
}

// LoginResponse carries the session token and the role-based landing page.
type LoginResponse struct {
	Token    string       `json:"token"`
	Redirect string       `json:"redirect"`
	User     UserResponse `json:"user"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse acknowledges the request. ResetLink is populated
// only when mail delivery failed and the link is surfaced as a fallback.
type ForgotPasswordResponse struct {
	Message   string `json:"message"`
	ResetLink string `json:"reset_link,omitempty"`
}

// ResetPasswordRequest submits the replacement password.
type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// ResetPasswordResponse returns a fresh session token so the caller stays
// signed in after the change.
type ResetPasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
