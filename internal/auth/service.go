package auth

import (
	"context"
	"fmt"

	"github.com/heatchat/auth-service/internal/models"
)

// Result is the outcome of a successful authentication.
type Result struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service runs the GitHub authentication flow: exchange the
// authorization code for an access token, resolve the GitHub account to
// a local user, issue a session token for that user.
type Service struct {
	provider Provider
	store    Store
	issuer   *TokenIssuer
}

// NewService creates an authentication service
func NewService(provider Provider, store Store, issuer *TokenIssuer) *Service {
	return &Service{
		provider: provider,
		store:    store,
		issuer:   issuer,
	}
}

// Execute authenticates the holder of a GitHub authorization code.
// Codes are single-use, so every failure is terminal: the caller must
// restart the OAuth flow to get a fresh code.
func (s *Service) Execute(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", ErrInvalidAuthorizationCode)
	}

	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindOrCreate(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserPersistenceFailed, err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	return &Result{Token: token, User: user}, nil
}
