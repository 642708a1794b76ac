package persistent

import (
	"context"

	"soundstage/pkg/models"

	"gorm.io/gorm"
)

// UserDirectory resolves display names for notification text.
type UserDirectory interface {
	GetUserName(ctx context.Context, userID string) (string, error)
}

type userDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &userDirectory{db: db}
}

func (r *userDirectory) GetUserName(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("name").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return "", err
	}
	return user.Name, nil
}
