package Iservices

import (
	"context"

	"emotional-analysis/internal/domain/entities"
)

// IAuthService handles dashboard account registration and credential checks.
type IAuthService interface {
	Register(ctx context.Context, username, password, role string) error
	Login(ctx context.Context, username, password, role string) (entities.User, error)
}
