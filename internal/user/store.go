package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/heatchat/auth-service/internal/auth"
	"github.com/heatchat/auth-service/internal/models"
)

// GormStore is the GORM-backed user store. It implements auth.Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a user store on the given database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindOrCreate returns the user for the profile's GitHub id, creating
// it if no such user exists. Repeat logins return the stored record
// unmodified, even if the profile has since changed on GitHub.
//
// The insert is conditional on the unique index over github_id, so two
// concurrent first-time logins for the same account end up with the
// same row: whoever loses the race re-reads the winner's insert.
func (s *GormStore) FindOrCreate(ctx context.Context, profile *auth.Profile) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("github_id = ?", profile.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := models.User{
		GithubID:  profile.ID,
		Login:     profile.Login,
		AvatarURL: profile.AvatarURL,
		Name:      profile.Name,
		CreatedAt: time.Now(),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "github_id"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return &candidate, nil
	}

	// Lost the race: another request inserted the row first
	if err := s.db.WithContext(ctx).Where("github_id = ?", profile.ID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks a user up by its local id
func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
