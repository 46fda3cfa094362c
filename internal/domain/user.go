package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User Model
type User struct {
	ID                    uuid.UUID  `gorm:"type:char(36);primaryKey"`         // Primary key
	Username              string     `gorm:"size:100;uniqueIndex;not null"`    // Normalized, unique username
	PasswordHash          string     `gorm:"size:500;not null"`                // Opaque password hash
	IsActive              bool       `gorm:"not null;default:true"`            // Soft-disable flag
	RefreshTokenHash      *string    `gorm:"size:128"`                         // Digest of the current refresh secret
	RefreshTokenExpiresAt *time.Time `gorm:"index"`                            // Absolute expiry of the refresh secret
	CreatedAt             time.Time  `gorm:"not null"`                         // Creation timestamp
}

// NormalizeUsername trims and lower-cases a username so lookups are case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewUser builds an active user from a username and an already computed password hash.
func NewUser(username, passwordHash string, now time.Time) (*User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, invalid("username", "is required")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, invalid("password_hash", "is required")
	}
	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now.UTC(),
	}, nil
}

// SetRefreshCredential stores the digest and expiry of a refresh secret together.
func (u *User) SetRefreshCredential(digest string, expiresAt time.Time) {
	exp := expiresAt.UTC()
	u.RefreshTokenHash = &digest
	u.RefreshTokenExpiresAt = &exp
}

// ClearRefreshCredential drops both halves of the refresh credential.
func (u *User) ClearRefreshCredential() {
	u.RefreshTokenHash = nil
	u.RefreshTokenExpiresAt = nil
}

// HasLiveRefreshCredential reports whether a digest is stored and has not expired at now.
func (u *User) HasLiveRefreshCredential(now time.Time) bool {
	if u.RefreshTokenHash == nil || *u.RefreshTokenHash == "" || u.RefreshTokenExpiresAt == nil {
		return false
	}
	return u.RefreshTokenExpiresAt.After(now)
}
