package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heatchat/auth-service/internal/auth"
	"github.com/heatchat/auth-service/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthenticateRequest carries the authorization code from the client
type AuthenticateRequest struct {
	Code string `json:"code"`
}

// HandleAuthenticate runs the GitHub authentication flow for a code
// submitted directly by the client
func HandleAuthenticate(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthenticateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := svc.Execute(r.Context(), req.Code)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// writeAuthError maps authentication flow errors to HTTP statuses. The
// underlying provider payload is logged, never sent to the client.
func writeAuthError(w http.ResponseWriter, err error) {
	log.Println("Auth: Authentication failed:", err)

	switch {
	case errors.Is(err, auth.ErrInvalidAuthorizationCode):
		http.Error(w, "Invalid authorization code", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrProviderUnavailable):
		http.Error(w, "Identity provider unavailable", http.StatusBadGateway)
	case errors.Is(err, auth.ErrProfileFetchFailed):
		http.Error(w, "Failed to fetch user profile", http.StatusBadGateway)
	default:
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
	}
}

// HandleGetCurrentUser returns the current authenticated user
func HandleGetCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value(userContextKey).(*models.User)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

// AuthMiddleware validates session tokens and loads the current user
func AuthMiddleware(jwtSecret string, store auth.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			userID, err := token.Claims.GetSubject()
			if err != nil || userID == "" {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			user, err := store.FindByID(r.Context(), userID)
			if err != nil {
				log.Println("AuthMiddleware: Failed to load user:", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
