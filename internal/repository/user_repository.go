package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Username and email must both be globally unique.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "username already taken")
		}
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "email already registered")
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	return translateStoreErr("create user", err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateStoreErr("find user", err)
	}
	return &user, nil
}

// FindByLogin resolves a username or email to a user.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error
	if err != nil {
		return nil, translateStoreErr("find user", err)
	}
	return &user, nil
}

// FindByIDs loads several users keyed by id.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	if len(ids) == 0 {
		return map[uint]model.User{}, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translateStoreErr("find users", err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}
