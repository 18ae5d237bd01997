package repo

import (
	"context"

	dom "todolist/internal/domain"

	"gorm.io/gorm"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Create(ctx context.Context, u *dom.User) error
}

// GormUserRepo implements UserRepo with GORM.
type GormUserRepo struct {
	db *gorm.DB
}

// NewGormUserRepo returns a new GormUserRepo.
func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

// GetByEmail returns the user with exactly this email, soft-deleted or not.
// gorm.ErrRecordNotFound when absent.
func (r *GormUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, err
}

// Create inserts u and fills its ID and CreatedAt.
func (r *GormUserRepo) Create(ctx context.Context, u *dom.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}
