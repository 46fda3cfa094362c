package service

import (
	"card_service/internal/db"
	"card_service/internal/domain"
	"card_service/internal/repository"
	"card_service/internal/utils"
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

type ledgerFixture struct {
	users *repository.UserRepository
	cards *CardService
	txs   *TransactionService
	hook  *logtest.Hook
	alice *domain.User
	bob   *domain.User
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	return newCachedLedgerFixture(t, nil)
}

// newCachedLedgerFixture is newLedgerFixture with both services reading
// through cache.
func newCachedLedgerFixture(t *testing.T, cache *utils.Cache) *ledgerFixture {
	t.Helper()
	gdb, err := db.OpenDialector(sqlite.Open(":memory:"), true)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	logger, hook := logtest.NewNullLogger()
	users := repository.NewUserRepository(gdb)
	cards := repository.NewCardRepository(gdb)
	txs := repository.NewTransactionRepository(gdb)

	f := &ledgerFixture{
		users: users,
		cards: NewCardService(users, cards, cache, logger),
		txs:   NewTransactionService(users, cards, txs, nil, cache, logger),
		hook:  hook,
	}
	f.alice = f.createUser(t, "alice")
	f.bob = f.createUser(t, "bob")

	// a clock that advances one second per call keeps orderings deterministic
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	f.cards.now = tick
	f.txs.now = tick
	return f
}

func (f *ledgerFixture) createUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, "hash", time.Now())
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *ledgerFixture) addCard(t *testing.T, owner *domain.User, token string) CardView {
	t.Helper()
	card, err := f.cards.Create(context.Background(), owner.ID, CreateCardRequest{
		Brand: "Visa",
		Last4: "4242",
		Token: token,
	})
	require.NoError(t, err)
	return card
}
