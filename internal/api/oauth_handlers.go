package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/heatchat/auth-service/internal/auth"
	"github.com/heatchat/auth-service/internal/github"
	"github.com/heatchat/auth-service/internal/models"
)

// stateTTL bounds how long a pending authorization stays redeemable
const stateTTL = 10 * time.Minute

// HandleOAuthRedirect starts the OAuth flow by redirecting the browser
// to GitHub's authorization page
func HandleOAuthRedirect(db *gorm.DB, gh *github.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := github.GenerateState()
		if err != nil {
			log.Println("OAuth: Failed to generate state:", err)
			http.Error(w, "Failed to initiate OAuth", http.StatusInternalServerError)
			return
		}

		record := models.AuthState{
			State:     state,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(stateTTL),
		}
		if err := db.Create(&record).Error; err != nil {
			log.Println("OAuth: Failed to store state:", err)
			http.Error(w, "Failed to initiate OAuth", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, gh.AuthorizeURL(state), http.StatusFound)
	}
}

// HandleOAuthCallback processes GitHub's redirect back: verifies and
// consumes the state, then runs the authentication flow with the code
func HandleOAuthCallback(db *gorm.DB, svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		if code == "" || state == "" {
			http.Error(w, "Invalid OAuth callback", http.StatusBadRequest)
			return
		}

		var record models.AuthState
		err := db.Where("state = ? AND expires_at > ?", state, time.Now()).First(&record).Error
		if err != nil {
			log.Println("OAuth: Invalid or expired state:", err)
			http.Error(w, "Invalid or expired OAuth state", http.StatusBadRequest)
			return
		}

		// One-time use
		db.Delete(&record)

		result, err := svc.Execute(r.Context(), code)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
