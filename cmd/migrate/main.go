package main

import (
	"card_service/internal/config"     // Custom import path (Config)
	"card_service/internal/db"         // Custom import path (Database)
	"card_service/internal/repository" // User store for seeding
	"card_service/internal/utils"      // Logger and password hashing
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	if err := utils.SetupLogger(cfg.LogLevel, cfg.IsProd); err != nil {
		logrus.Fatal(err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatal(err)
	}

	// Seed default users on an empty database
	if cfg.SeedUsers {
		users := repository.NewUserRepository(gdb)
		hasher := utils.BcryptHasher{Cost: bcrypt.DefaultCost}
		if err := db.Seed(context.Background(), users, hasher, db.DefaultSeedUsers); err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
	}
}
