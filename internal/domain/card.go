package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card Model
type Card struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`      // Primary key
	UserID    uuid.UUID `gorm:"type:char(36);index;not null"`  // Owning identity
	Brand     string    `gorm:"size:50;not null"`              // Visa, MasterCard, ...
	Last4     string    `gorm:"size:4;not null"`               // Last four digits shown to the owner
	Token     string    `gorm:"size:255;uniqueIndex;not null"` // Opaque payment token, never a PAN
	Nickname  string    `gorm:"size:100"`                      // Optional label
	IsActive  bool      `gorm:"not null;default:true;index"`   // Soft-delete flag
	CreatedAt time.Time `gorm:"not null;index"`                // Creation timestamp
}

// NewCard validates the input and returns an active card owned by userID.
func NewCard(userID uuid.UUID, brand, last4, token, nickname string, now time.Time) (*Card, error) {
	if userID == uuid.Nil {
		return nil, invalid("user_id", "is required")
	}
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, invalid("brand", "is required")
	}
	last4 = strings.TrimSpace(last4)
	if len(last4) != 4 {
		return nil, invalid("last4", "must be exactly 4 characters")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("token", "is required")
	}
	return &Card{
		ID:        uuid.New(),
		UserID:    userID,
		Brand:     brand,
		Last4:     last4,
		Token:     token,
		Nickname:  strings.TrimSpace(nickname),
		IsActive:  true,
		CreatedAt: now.UTC(),
	}, nil
}

// OwnerID implements Owned.
func (c *Card) OwnerID() uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	return c.UserID
}

// Disable soft-deletes the card. Cards are never removed physically.
func (c *Card) Disable() {
	c.IsActive = false
}
