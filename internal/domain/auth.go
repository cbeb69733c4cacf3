package domain

import (
	"context"
	"errors"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=50"`
	LastName  string `json:"lastName" validate:"required,max=20"`
	FirstName string `json:"firstName" validate:"required,max=20"`
	Password  string `json:"password" validate:"required,min=8,max=120"`
}

type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) error
	ResolveByEmail(ctx context.Context, email string) (*User, error)
}
