package db

import (
	"card_service/internal/domain"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// SeedUser is a username/password pair created on an empty database.
type SeedUser struct {
	Username string
	Password string
}

// DefaultSeedUsers are the accounts created by Seed when none are configured.
var DefaultSeedUsers = []SeedUser{
	{Username: "admin", Password: "Admin123*"},
	{Username: "user", Password: "User123*"},
}

// UserSeeder is the subset of the user store Seed needs.
type UserSeeder interface {
	Any(ctx context.Context) (bool, error)
	Create(ctx context.Context, user *domain.User) error
}

// Hasher hashes seed passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Seed creates users only when the users table is empty.
func Seed(ctx context.Context, users UserSeeder, hasher Hasher, seeds []SeedUser) error {
	exists, err := users.Any(ctx)
	if err != nil {
		return err
	}
	if exists {
		logrus.Info("Users already present, skipping seed.")
		return nil
	}
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user, err := domain.NewUser(s.Username, hash, time.Now())
		if err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		logrus.WithField("username", user.Username).Info("Seeded user")
	}
	return nil
}
