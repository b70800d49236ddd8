package auth

import (
	"context"

	"github.com/heatchat/auth-service/internal/models"
)

// Profile is an immutable snapshot of a GitHub account at fetch time.
type Profile struct {
	ID        int64
	Login     string
	AvatarURL string
	Name      *string
}

// Provider turns a one-time authorization code into an account profile.
// Implemented by the GitHub client; test doubles implement it in tests.
type Provider interface {
	// ExchangeCode exchanges the authorization code for a bearer access token.
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchProfile fetches the profile of the account the token belongs to.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Store resolves and provisions local users.
type Store interface {
	// FindOrCreate returns the user for the profile's GitHub id, creating
	// it first if no such user exists. Must be safe under concurrent
	// calls for the same id: at most one user per GitHub account, ever.
	FindOrCreate(ctx context.Context, profile *Profile) (*models.User, error)
	// FindByID looks a user up by its local id.
	FindByID(ctx context.Context, id string) (*models.User, error)
}
