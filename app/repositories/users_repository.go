package repositories

import (
	"context"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

type UserRepositoryImpl interface {
	WithTx(tx *gorm.DB) UserRepositoryImpl
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepositoryImpl {
	return &userRepository{tx}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := first(ctx, r.db, &user, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	found, err := first(ctx, r.db, &user, "email = ?", email)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &models.User{}, "id = ?", id)
}
