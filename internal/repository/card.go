package repository

import (
	"card_service/internal/domain"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardRepository persists payment cards.
type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts card. A reused payment token maps to domain.ErrDuplicate.
func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return translate(err, "create card")
	}
	return nil
}

// FindByID returns nil, nil when the card does not exist, active or not.
func (r *CardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return &card, nil
}

// ListActiveByUser returns the owner's active cards, newest first.
func (r *CardRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	var cards []domain.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// Disable soft-deletes card and persists its active flag. Disabling an
// inactive card is a no-op.
func (r *CardRepository) Disable(ctx context.Context, card *domain.Card) error {
	card.Disable()
	err := r.db.WithContext(ctx).Model(&domain.Card{}).
		Where("id = ? AND is_active = ?", card.ID, true).
		Update("is_active", card.IsActive).Error
	if err != nil {
		return fmt.Errorf("failed to disable card: %w", err)
	}
	return nil
}
