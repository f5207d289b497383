package repository

import (
	"context"
	"errors"
	"strings"

	"coursenotes/cmd/internal/domain/database/scope"
	"coursenotes/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively, emails are stored lower-cased.
func (u *DefaultUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *DefaultUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error
	return count, err
}

func (u *DefaultUserRepository) Save(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	return u.db.WithContext(ctx).Omit("Notes").Save(user).Error
}

// DeleteWithNotes removes the user, its notes and its websocket connections
// in one transaction.
func (u *DefaultUserRepository) DeleteWithNotes(ctx context.Context, user *entity.User) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scope.OwnedBy(user.ID)).Delete(&entity.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&entity.Connection{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
