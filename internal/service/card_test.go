package service

import (
	"card_service/internal/domain"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardService_CreateValidatesLast4(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.cards.Create(ctx, f.alice.ID, CreateCardRequest{Brand: "Visa", Last4: "12", Token: "tok_1"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "last4", verr.Field)
	assert.ErrorIs(t, err, domain.ErrValidation)

	card, err := f.cards.Create(ctx, f.alice.ID, CreateCardRequest{Brand: " Visa ", Last4: "1234", Token: "tok_1", Nickname: " daily "})
	require.NoError(t, err)
	assert.Equal(t, "Visa", card.Brand)
	assert.Equal(t, "1234", card.Last4)
	assert.Equal(t, "daily", card.Nickname)
}

func TestCardService_DuplicateToken(t *testing.T) {
	f := newLedgerFixture(t)
	f.addCard(t, f.alice, "tok_dup")

	_, err := f.cards.Create(context.Background(), f.bob.ID, CreateCardRequest{Brand: "Visa", Last4: "1111", Token: "tok_dup"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCardService_ListIsScopedAndOrdered(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	older := f.addCard(t, f.alice, "tok_a1")
	newer := f.addCard(t, f.alice, "tok_a2")
	f.addCard(t, f.bob, "tok_b1")

	cards, err := f.cards.List(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, newer.ID, cards[0].ID)
	assert.Equal(t, older.ID, cards[1].ID)

	empty := f.createUser(t, "carol")
	cards, err = f.cards.List(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.NotNil(t, cards)
}

func TestCardService_DeleteOwnCard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")

	require.NoError(t, f.cards.Delete(ctx, f.alice.ID, card.ID))
	cards, err := f.cards.List(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	// deleting an already inactive card is a no-op
	assert.NoError(t, f.cards.Delete(ctx, f.alice.ID, card.ID))
}

func TestCardService_DeleteForeignCardIsForbidden(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")

	err := f.cards.Delete(ctx, f.bob.ID, card.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cards, err := f.cards.List(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1, "foreign delete must leave the card active")

	// still forbidden once the owner has disabled it
	require.NoError(t, f.cards.Delete(ctx, f.alice.ID, card.ID))
	assert.ErrorIs(t, f.cards.Delete(ctx, f.bob.ID, card.ID), domain.ErrForbidden)
}

func TestCardService_DeleteUnknownCardIsNoop(t *testing.T) {
	f := newLedgerFixture(t)
	assert.NoError(t, f.cards.Delete(context.Background(), f.alice.ID, uuid.New()))
}

func TestCardService_UnknownCallerIsRejected(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.cards.List(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
