package service

import (
	"card_service/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenPair is returned by login and refresh. The refresh secret is shown once.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateCardRequest is the input for registering a card.
type CreateCardRequest struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	Token    string `json:"token"`
	Nickname string `json:"nickname"`
}

// CardView is what callers see of a card. The payment token is never returned.
type CardView struct {
	ID        uuid.UUID `json:"id"`
	Brand     string    `json:"brand"`
	Last4     string    `json:"last4"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTransactionRequest is the input for charging a card.
type CreateTransactionRequest struct {
	CardID      uuid.UUID       `json:"card_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
}

// TransactionView is what callers see of a transaction. Amount always carries
// two decimals, e.g. "10.00".
type TransactionView struct {
	ID          uuid.UUID                `json:"id"`
	CardID      uuid.UUID                `json:"card_id"`
	Amount      string                   `json:"amount"`
	Currency    string                   `json:"currency"`
	Description string                   `json:"description"`
	Status      domain.TransactionStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
}

func toCardView(c *domain.Card) CardView {
	return CardView{
		ID:        c.ID,
		Brand:     c.Brand,
		Last4:     c.Last4,
		Nickname:  c.Nickname,
		CreatedAt: c.CreatedAt,
	}
}

func toTransactionView(t *domain.Transaction) TransactionView {
	return TransactionView{
		ID:          t.ID,
		CardID:      t.CardID,
		Amount:      t.Amount.StringFixed(2),
		Currency:    t.Currency,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}
