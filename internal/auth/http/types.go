package http

import (
	"context"

	"github.com/lojaweb/storefront-api/internal/auth/domain"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Session, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, error)
	LoginWithGoogle(ctx context.Context, req *domain.GoogleLoginRequest) (*domain.Session, error)
	ChangePassword(ctx context.Context, id int64, req *domain.ChangePasswordRequest) error
	Me(ctx context.Context, id int64) (*domain.User, error)
}

type Handler struct {
	authService AuthService
}

func New(authService AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}
