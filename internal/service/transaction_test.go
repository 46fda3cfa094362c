package service

import (
	"card_service/internal/domain"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pay(amount string, cardID uuid.UUID) CreateTransactionRequest {
	return CreateTransactionRequest{
		CardID:   cardID,
		Amount:   decimal.RequireFromString(amount),
		Currency: "usd",
	}
}

func TestTransactionService_PayClassifiesAtCeiling(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")

	cases := []struct {
		amount string
		want   domain.TransactionStatus
		stored string
	}{
		{"2000000.00", domain.StatusApproved, "2000000.00"},
		{"2000000.01", domain.StatusDeclined, "2000000.01"},
		{"2000000.005", domain.StatusApproved, "2000000.00"},
		{"2000000.015", domain.StatusDeclined, "2000000.02"},
		{"0.01", domain.StatusApproved, "0.01"},
		{"10", domain.StatusApproved, "10.00"},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			tx, err := f.txs.Pay(ctx, f.alice.ID, pay(tc.amount, card.ID))
			require.NoError(t, err)
			assert.Equal(t, tc.want, tx.Status)
			assert.Equal(t, tc.stored, tx.Amount)
			assert.Equal(t, "USD", tx.Currency)
		})
	}
}

func TestTransactionService_PayValidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")

	for _, amount := range []string{"0", "-5", "0.004"} {
		_, err := f.txs.Pay(ctx, f.alice.ID, pay(amount, card.ID))
		assert.ErrorIs(t, err, domain.ErrValidation, amount)
	}

	req := pay("10", card.ID)
	req.Currency = "US"
	_, err := f.txs.Pay(ctx, f.alice.ID, req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.txs.Pay(ctx, f.alice.ID, pay("10", uuid.Nil))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransactionService_PayRequiresOwnedActiveCard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")

	_, err := f.txs.Pay(ctx, f.bob.ID, pay("10", card.ID))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.txs.Pay(ctx, f.alice.ID, pay("10", uuid.New()))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.cards.Delete(ctx, f.alice.ID, card.ID))
	_, err = f.txs.Pay(ctx, f.alice.ID, pay("10", card.ID))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionService_HistoryScopeAndRange(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	aliceCard := f.addCard(t, f.alice, "tok_a1")
	bobCard := f.addCard(t, f.bob, "tok_b1")

	first, err := f.txs.Pay(ctx, f.alice.ID, pay("1", aliceCard.ID))
	require.NoError(t, err)
	second, err := f.txs.Pay(ctx, f.alice.ID, pay("2", aliceCard.ID))
	require.NoError(t, err)
	_, err = f.txs.Pay(ctx, f.bob.ID, pay("3", bobCard.ID))
	require.NoError(t, err)

	all, err := f.txs.History(ctx, f.alice.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	// bounds are inclusive
	from := first.CreatedAt
	to := first.CreatedAt
	ranged, err := f.txs.History(ctx, f.alice.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, first.ID, ranged[0].ID)

	after := second.CreatedAt.Add(time.Second)
	none, err := f.txs.History(ctx, f.alice.ID, &after, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransactionService_HistoryByCard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	one := f.addCard(t, f.alice, "tok_a1")
	two := f.addCard(t, f.alice, "tok_a2")

	_, err := f.txs.Pay(ctx, f.alice.ID, pay("1", one.ID))
	require.NoError(t, err)
	_, err = f.txs.Pay(ctx, f.alice.ID, pay("2", two.ID))
	require.NoError(t, err)

	txs, err := f.txs.HistoryByCard(ctx, f.alice.ID, one.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, one.ID, txs[0].CardID)

	_, err = f.txs.HistoryByCard(ctx, f.bob.ID, one.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.txs.HistoryByCard(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionService_GetIsOwnerScoped(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")
	tx, err := f.txs.Pay(ctx, f.alice.ID, pay("5", card.ID))
	require.NoError(t, err)

	got, err := f.txs.Get(ctx, f.alice.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	_, err = f.txs.Get(ctx, f.bob.ID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.txs.Get(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionService_Reverse(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")

	approved, err := f.txs.Pay(ctx, f.alice.ID, pay("10", card.ID))
	require.NoError(t, err)
	declined, err := f.txs.Pay(ctx, f.alice.ID, pay("2000000.01", card.ID))
	require.NoError(t, err)

	_, err = f.txs.Reverse(ctx, f.bob.ID, approved.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.txs.Reverse(ctx, f.alice.ID, declined.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	reversed, err := f.txs.Reverse(ctx, f.alice.ID, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReversed, reversed.Status)

	_, err = f.txs.Reverse(ctx, f.alice.ID, approved.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := f.txs.Get(ctx, f.alice.ID, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReversed, got.Status)
}

func TestTransactionService_ConcurrentReverseHasOneWinner(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	card := f.addCard(t, f.alice, "tok_a1")
	tx, err := f.txs.Pay(ctx, f.alice.ID, pay("10", card.ID))
	require.NoError(t, err)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.txs.Reverse(ctx, f.alice.ID, tx.ID)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, ok)
}
