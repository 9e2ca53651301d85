package auth

import (
	"context"

	"github.com/Sintu8737/timesheet/internal"
)

// Provider checks credentials and resolves session tokens to identities.
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (*internal.Identity, error)
	ValidateToken(ctx context.Context, token string) (*internal.Identity, error)
}
