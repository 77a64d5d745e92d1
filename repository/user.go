package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/models"
)

// UserRepository is the gorm-backed account lookup.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository instance.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EmailExists reports whether a registered account owns the email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
