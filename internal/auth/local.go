package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/yourname/sleepdiary/internal"
)

var ErrInvalidToken = errors.New("invalid token")

// LocalAuthProvider accepts one configured token and signs every request in
// as the diary owner the seeder writes a profile for.
type LocalAuthProvider struct {
	Token  string
	owner  internal.User
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	if token == "" || a.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.Token)) != 1 {
		a.logger.Warnf("invalid token for diary owner %s", a.owner.ID)
		return nil, ErrInvalidToken
	}
	owner := a.owner
	return &owner, nil
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

// NewLocalAuthProvider maps token to the diary owner userID/name.
func NewLocalAuthProvider(token, userID, name string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{
		Token:  token,
		owner:  internal.User{ID: userID, Name: name},
		logger: logger,
	}
}
