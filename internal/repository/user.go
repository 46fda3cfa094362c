package repository

import (
	"card_service/internal/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository persists identities and their refresh credential.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A duplicate username maps to domain.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "create user")
	}
	return nil
}

// FindByUsername returns nil, nil when no user has the normalized username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", domain.NormalizeUsername(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByID returns nil, nil when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Any reports whether at least one user exists.
func (r *UserRepository) Any(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}

// SetRefreshCredential overwrites the stored digest and expiry in one statement.
func (r *UserRepository) SetRefreshCredential(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	user := domain.User{ID: id}
	user.SetRefreshCredential(digest, expiresAt)
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(refreshColumns(&user))
	if res.Error != nil {
		return fmt.Errorf("failed to store refresh credential: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearRefreshCredential removes the digest and expiry together.
func (r *UserRepository) ClearRefreshCredential(ctx context.Context, id uuid.UUID) error {
	user := domain.User{ID: id}
	user.ClearRefreshCredential()
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(refreshColumns(&user)).Error
	if err != nil {
		return fmt.Errorf("failed to clear refresh credential: %w", err)
	}
	return nil
}

// RotateRefreshCredential replaces the credential only if the stored digest is
// still prevDigest. It returns false when another writer got there first.
func (r *UserRepository) RotateRefreshCredential(ctx context.Context, id uuid.UUID, prevDigest, digest string, expiresAt time.Time) (bool, error) {
	user := domain.User{ID: id}
	user.SetRefreshCredential(digest, expiresAt)
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND refresh_token_hash = ?", id, prevDigest).
		Updates(refreshColumns(&user))
	if res.Error != nil {
		return false, fmt.Errorf("failed to rotate refresh credential: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ClearExpiredRefreshCredentials drops every credential whose expiry is at or before now.
func (r *UserRepository) ClearExpiredRefreshCredentials(ctx context.Context, now time.Time) (int64, error) {
	var cleared domain.User
	cleared.ClearRefreshCredential()
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at <= ?", now.UTC()).
		Updates(refreshColumns(&cleared))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sweep refresh credentials: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// refreshColumns writes both halves of the credential as the entity holds them.
// A nil pointer is stored as NULL.
func refreshColumns(u *domain.User) map[string]any {
	return map[string]any{
		"refresh_token_hash":       u.RefreshTokenHash,
		"refresh_token_expires_at": u.RefreshTokenExpiresAt,
	}
}
