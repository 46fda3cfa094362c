package service

import (
	"card_service/internal/domain"
	"card_service/internal/utils"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TransactionService charges cards and exposes the caller's history.
type TransactionService struct {
	users  UserStore
	cards  CardStore
	txs    TransactionStore
	policy domain.ApprovalPolicy
	cache  *utils.Cache
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewTransactionService(users UserStore, cards CardStore, txs TransactionStore, policy domain.ApprovalPolicy, cache *utils.Cache, log logrus.FieldLogger) *TransactionService {
	if policy == nil {
		policy = domain.NewCeilingPolicy(domain.DefaultApprovalCeiling)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TransactionService{users: users, cards: cards, txs: txs, policy: policy, cache: cache, log: log, now: time.Now}
}

func historyCachePrefix(userID uuid.UUID) string {
	return "txhistory:user:" + userID.String()
}

func historyCacheKey(userID uuid.UUID, from, to *time.Time) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339Nano)
	}
	return historyCachePrefix(userID) + ":from:" + bound(from) + ":to:" + bound(to)
}

// Pay charges one of the caller's active cards. The status comes from the
// approval policy.
func (s *TransactionService) Pay(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (TransactionView, error) {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return TransactionView{}, err
	}
	if req.CardID == uuid.Nil {
		return TransactionView{}, &domain.ValidationError{Field: "card_id", Reason: "is required"}
	}
	card, err := s.cards.FindByID(ctx, req.CardID)
	if err != nil {
		return TransactionView{}, err
	}
	if card == nil || !card.IsActive {
		return TransactionView{}, fmt.Errorf("card: %w", domain.ErrNotFound)
	}
	if err := domain.AssertOwned(card, userID); err != nil {
		return TransactionView{}, err
	}

	status := s.policy.Classify(domain.RoundAmount(req.Amount))
	tx, err := domain.NewTransaction(userID, card.ID, req.Amount, req.Currency, req.Description, status, s.now())
	if err != nil {
		return TransactionView{}, err
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return TransactionView{}, err
	}
	s.invalidate(ctx, userID)
	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"card_id":        card.ID,
		"transaction_id": tx.ID,
		"amount":         tx.Amount.StringFixed(2),
		"currency":       tx.Currency,
		"status":         tx.Status,
	}).Info("Card transaction")
	return toTransactionView(tx), nil
}

// History lists the caller's transactions newest first within optional inclusive bounds.
func (s *TransactionService) History(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]TransactionView, error) {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	key := historyCacheKey(userID, from, to)
	var cached []TransactionView
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}
	txs, err := s.txs.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	views := toTransactionViews(txs)
	if err := s.cache.Set(ctx, key, views); err != nil {
		s.log.WithError(err).Warn("Failed to cache transaction history")
	}
	return views, nil
}

// HistoryByCard lists the transactions made with one of the caller's cards.
func (s *TransactionService) HistoryByCard(ctx context.Context, userID, cardID uuid.UUID) ([]TransactionView, error) {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card: %w", domain.ErrNotFound)
	}
	if err := domain.AssertOwned(card, userID); err != nil {
		return nil, err
	}
	txs, err := s.txs.ListByCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	return toTransactionViews(txs), nil
}

// Get returns one of the caller's transactions.
func (s *TransactionService) Get(ctx context.Context, userID, txID uuid.UUID) (TransactionView, error) {
	tx, err := s.owned(ctx, userID, txID)
	if err != nil {
		return TransactionView{}, err
	}
	return toTransactionView(tx), nil
}

// Reverse moves an Approved transaction to Reversed. Only one concurrent
// reversal can win; the others see ErrInvalidState.
func (s *TransactionService) Reverse(ctx context.Context, userID, txID uuid.UUID) (TransactionView, error) {
	tx, err := s.owned(ctx, userID, txID)
	if err != nil {
		return TransactionView{}, err
	}
	prev := tx.Status
	if err := tx.Reverse(); err != nil {
		return TransactionView{}, err
	}
	ok, err := s.txs.CompareAndSetStatus(ctx, tx.ID, prev, tx.Status)
	if err != nil {
		return TransactionView{}, err
	}
	if !ok {
		return TransactionView{}, domain.ErrInvalidState
	}
	s.invalidate(ctx, userID)
	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": tx.ID,
	}).Info("Transaction reversed")
	return toTransactionView(tx), nil
}

func (s *TransactionService) owned(ctx context.Context, userID, txID uuid.UUID) (*domain.Transaction, error) {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	tx, err := s.txs.FindByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction: %w", domain.ErrNotFound)
	}
	if err := domain.AssertOwned(tx, userID); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.DeletePrefix(ctx, historyCachePrefix(userID)); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate transaction cache")
	}
}

func toTransactionViews(txs []domain.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(txs))
	for i := range txs {
		views = append(views, toTransactionView(&txs[i]))
	}
	return views
}
