package request

import (
	"psyconnect/internal/domain/user"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=patient professional"`
	DisplayName string `json:"display_name" binding:"required"`
}

func (r *RegisterRequest) ToDomain() (user.Email, user.Password, user.Role, error) {
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return user.Email{}, user.Password{}, "", err
	}
	password, err := user.NewPassword(r.Password)
	if err != nil {
		return user.Email{}, user.Password{}, "", err
	}
	role, err := user.NewRole(r.Role)
	if err != nil {
		return user.Email{}, user.Password{}, "", err
	}
	return email, password, role, nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
