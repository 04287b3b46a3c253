package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/repository/postgres"
	"github.com/corebank/transfer-engine/internal/config"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username string
	password string
	balance  string
}

var seedUsers = []seedUser{
	{username: "alice", password: "alice123", balance: "50000.00"},
	{username: "bob", password: "bob123", balance: "1000.00"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)

	for _, seed := range seedUsers {
		if _, err := userRepo.GetByUsername(ctx, seed.username); err == nil {
			log.Printf("user %s already exists, skipping", seed.username)
			continue
		} else if !errors.Is(err, domain.ErrRecordNotFound) {
			log.Fatalf("check user %s: %v", seed.username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", seed.username, err)
		}

		user := domain.User{Username: seed.username, PasswordHash: string(hash)}
		if _, err := userRepo.Create(ctx, user, decimal.RequireFromString(seed.balance)); err != nil {
			log.Fatalf("seed user %s: %v", seed.username, err)
		}

		log.Printf("seeded user %s with balance %s", seed.username, seed.balance)
	}

	log.Println("seeding complete")
}
