package models

import "time"

// AuthState represents a pending OAuth authorization, identified by the
// state value sent to GitHub. One-time use, short lived.
type AuthState struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	State     string    `json:"state" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

// TableName specifies the table name for AuthState
func (AuthState) TableName() string {
	return "auth_states"
}
