package auth

import (
	"context"

	"github.com/Sintu8737/timesheet/internal"
)

// LocalProvider checks credentials against the in-process registry.
type LocalProvider struct {
	*Sessions
	registry *Registry
	logger   internal.Logger
}

func (a *LocalProvider) Authenticate(ctx context.Context, email, password string) (*internal.Identity, error) {
	id, err := a.registry.Authenticate(ctx, email, password)
	if err != nil {
		a.logger.Warnf("failed login for %q", email)
		return nil, err
	}
	return id, nil
}

func NewLocalProvider(registry *Registry, sessions *Sessions, logger internal.Logger) *LocalProvider {
	return &LocalProvider{Sessions: sessions, registry: registry, logger: logger}
}

var _ Provider = (*LocalProvider)(nil)
