package service

import (
	"card_service/internal/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore is the persistence the auth and resource services need for identities.
// Finders return nil, nil when nothing matches.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	SetRefreshCredential(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error
	ClearRefreshCredential(ctx context.Context, id uuid.UUID) error
	RotateRefreshCredential(ctx context.Context, id uuid.UUID, prevDigest, digest string, expiresAt time.Time) (bool, error)
}

// CardStore persists cards.
type CardStore interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	Disable(ctx context.Context, card *domain.Card) error
}

// TransactionStore persists transactions.
type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]domain.Transaction, error)
	ListByCard(ctx context.Context, userID, cardID uuid.UUID) ([]domain.Transaction, error)
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to domain.TransactionStatus) (bool, error)
}

// PasswordHasher hashes and verifies passwords. Its algorithm is opaque to the services.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// requireActiveUser resolves the caller. A missing or disabled identity is
// reported as an invalid token so the caller re-authenticates.
func requireActiveUser(ctx context.Context, users UserStore, id uuid.UUID) (*domain.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}
