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

// TransactionRepository persists card transactions.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return translate(err, "create transaction")
	}
	return nil
}

// FindByID returns nil, nil when the transaction does not exist.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &tx, nil
}

// ListByUser returns the user's transactions newest first, optionally bounded
// by inclusive creation times.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]domain.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID) // Start building the query
	if from != nil {
		query = query.Where("created_at >= ?", from.UTC()) // Filter by start date
	}
	if to != nil {
		query = query.Where("created_at <= ?", to.UTC()) // Filter by end date
	}
	var txs []domain.Transaction
	if err := query.Order("created_at desc").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// ListByCard returns the user's transactions on one card, newest first. The
// user filter keeps a foreign card's history out of reach.
func (r *TransactionRepository) ListByCard(ctx context.Context, userID, cardID uuid.UUID) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Order("created_at desc").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list card transactions: %w", err)
	}
	return txs, nil
}

// CompareAndSetStatus moves the transaction from one status to another and
// reports false if the stored status was no longer from.
func (r *TransactionRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
