package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusApproved TransactionStatus = "Approved"
	StatusDeclined TransactionStatus = "Declined"
	StatusReversed TransactionStatus = "Reversed"
)

// Transaction Model
type Transaction struct {
	ID          uuid.UUID         `gorm:"type:char(36);primaryKey"`     // Primary key
	CardID      uuid.UUID         `gorm:"type:char(36);index;not null"` // Card charged
	UserID      uuid.UUID         `gorm:"type:char(36);index;not null"` // Copied from the card at creation
	Amount      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`  // Always > 0, two decimals
	Currency    string            `gorm:"size:3;not null"`              // ISO-like three letter code
	Description string            `gorm:"size:250"`                     // Free text
	Status      TransactionStatus `gorm:"size:16;not null"`             // Approved, Declined or Reversed
	CreatedAt   time.Time         `gorm:"not null;index"`               // Creation timestamp
}

// NewTransaction validates and normalizes the input. The amount is rounded to
// two decimals and must stay positive after rounding.
func NewTransaction(userID, cardID uuid.UUID, amount decimal.Decimal, currency, description string, status TransactionStatus, now time.Time) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, invalid("user_id", "is required")
	}
	if cardID == uuid.Nil {
		return nil, invalid("card_id", "is required")
	}
	if !amount.IsPositive() {
		return nil, invalid("amount", "must be greater than zero")
	}
	amount = RoundAmount(amount)
	if !amount.IsPositive() {
		return nil, invalid("amount", "must be at least 0.01")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, invalid("currency", "is required")
	}
	if !isCurrencyCode(currency) {
		return nil, invalid("currency", "must be a 3-letter code")
	}
	switch status {
	case StatusApproved, StatusDeclined:
	default:
		return nil, invalid("status", "must be Approved or Declined at creation")
	}
	return &Transaction{
		ID:          uuid.New(),
		CardID:      cardID,
		UserID:      userID,
		Amount:      amount,
		Currency:    currency,
		Description: strings.TrimSpace(description),
		Status:      status,
		CreatedAt:   now.UTC(),
	}, nil
}

// RoundAmount rounds to cents using banker's rounding.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(2)
}

// OwnerID implements Owned.
func (t *Transaction) OwnerID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.UserID
}

// Reverse moves an Approved transaction to Reversed. Declined and Reversed are terminal.
func (t *Transaction) Reverse() error {
	if t.Status != StatusApproved {
		return ErrInvalidState
	}
	t.Status = StatusReversed
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
