package auth

import (
	"context"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/config"
)

type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}

// NewProvider picks local token checks in development and the remote
// validation service everywhere else.
func NewProvider(cfg *config.Config, logger internal.Logger) Provider {
	if cfg.Env == "development" {
		return NewLocalAuthProvider(cfg.AuthToken, cfg.AuthUserID, cfg.AuthUserName, logger)
	}
	return NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
}
