package response

import (
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
)

type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
}

func FromAuthResult(r *commands.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: r.Token,
		UserID:      r.UserID,
		Role:        r.Role,
	}
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
}

func FromCredentialView(v *queries.CredentialView) UserResponse {
	return UserResponse{
		ID:          v.ID,
		Email:       v.Email,
		Role:        v.Role,
		DisplayName: v.DisplayName,
	}
}
