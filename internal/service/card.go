package service

import (
	"card_service/internal/domain"
	"card_service/internal/utils"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CardService manages the caller's payment cards.
type CardService struct {
	users UserStore
	cards CardStore
	cache *utils.Cache
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewCardService(users UserStore, cards CardStore, cache *utils.Cache, log logrus.FieldLogger) *CardService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CardService{users: users, cards: cards, cache: cache, log: log, now: time.Now}
}

func cardsCacheKey(userID uuid.UUID) string {
	return "cards:user:" + userID.String()
}

// List returns the caller's active cards, newest first.
func (s *CardService) List(ctx context.Context, userID uuid.UUID) ([]CardView, error) {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	key := cardsCacheKey(userID)
	var cached []CardView
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	cards, err := s.cards.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]CardView, 0, len(cards))
	for i := range cards {
		views = append(views, toCardView(&cards[i]))
	}
	if err := s.cache.Set(ctx, key, views); err != nil {
		s.log.WithError(err).Warn("Failed to cache card list")
	}
	return views, nil
}

// Create registers a new card for the caller.
func (s *CardService) Create(ctx context.Context, userID uuid.UUID, req CreateCardRequest) (CardView, error) {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return CardView{}, err
	}
	card, err := domain.NewCard(userID, req.Brand, req.Last4, req.Token, req.Nickname, s.now())
	if err != nil {
		return CardView{}, err
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return CardView{}, err
	}
	s.invalidate(ctx, userID)
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"card_id": card.ID,
	}).Info("Card created")
	return toCardView(card), nil
}

// Delete soft-deletes one of the caller's cards. Unknown or already inactive
// cards are a no-op, but a card owned by someone else is always Forbidden.
func (s *CardService) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := requireActiveUser(ctx, s.users, userID); err != nil {
		return err
	}
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return nil
	}
	if err := domain.AssertOwned(card, userID); err != nil {
		return err
	}
	if !card.IsActive {
		return nil
	}
	if err := s.cards.Disable(ctx, card); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"card_id": card.ID,
	}).Info("Card disabled")
	return nil
}

func (s *CardService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, cardsCacheKey(userID)); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate card cache")
	}
}
