package repositories

import (
	"context"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	GetActiveByRole(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error)
	TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.New("userRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*User, error) {
	log := logger.New("userRepository").Function("GetByID")

	var user User
	if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get user", err, "userID", id)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(
	ctx context.Context,
	tx *gorm.DB,
	email string,
) (*User, error) {
	log := logger.New("userRepository").Function("GetByEmail")

	var user User
	if err := tx.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) GetActiveByRole(
	ctx context.Context,
	tx *gorm.DB,
	role Role,
) ([]*User, error) {
	log := logger.New("userRepository").Function("GetActiveByRole")

	var users []*User
	if err := tx.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Find(&users).Error; err != nil {
		return nil, log.Err("failed to get users by role", err, "role", role)
	}

	return users, nil
}

func (r *userRepository) TouchLastLogin(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) error {
	log := logger.New("userRepository").Function("TouchLastLogin")

	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("last_login_at", gorm.Expr("now()")).Error; err != nil {
		return log.Err("failed to update last login", err, "userID", id)
	}

	return nil
}
