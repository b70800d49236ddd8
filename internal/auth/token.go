package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heatchat/auth-service/internal/models"
)

// TokenTTL is how long issued session tokens stay valid.
const TokenTTL = 24 * time.Hour

// TokenIssuer signs session tokens carrying minimal user claims.
type TokenIssuer struct {
	secret string
}

// NewTokenIssuer creates a token issuer. An empty secret is a
// configuration fault and refuses to construct.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrSigningKeyMissing
	}
	return &TokenIssuer{secret: secret}, nil
}

// Issue signs a session token for the user, expiring in TokenTTL.
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]interface{}{
			"name":       user.Name,
			"avatar_url": user.AvatarURL,
			"id":         user.ID,
		},
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	})

	return token.SignedString([]byte(i.secret))
}
