package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

// Roles reads stored user roles for the authorization middleware.
type Roles struct {
	db *gorm.DB
}

func NewRoles(db *gorm.DB) *Roles {
	return &Roles{db: db}
}

func (r *Roles) RoleByEmail(ctx context.Context, email string) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}
