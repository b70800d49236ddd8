package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a locally provisioned user account, keyed by the
// GitHub account id it was provisioned from.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	GithubID  int64     `json:"github_id" gorm:"uniqueIndex;not null"`
	Login     string    `json:"login" gorm:"not null"`
	AvatarURL string    `json:"avatar_url"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
